package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Federico-Chandia/Scrapper-quini6/models"
)

func recordsFromNumbers(draws [][]int) []models.DrawRecord {
	records := make([]models.DrawRecord, len(draws))
	for i, numbers := range draws {
		tokens := make([]string, len(numbers))
		for j, n := range numbers {
			tokens[j] = fmt.Sprintf("%02d", n)
		}
		records[i] = models.DrawRecord{
			Sorteo:  fmt.Sprintf("SORTEO %d", i+1),
			Numeros: strings.Join(tokens, " - "),
		}
	}
	return records
}

func genDraws(minDraws int) gopter.Gen {
	return gen.SliceOf(gen.SliceOfN(6, gen.IntRange(0, 45))).
		SuchThat(func(draws [][]int) bool { return len(draws) >= minDraws })
}

func TestSynthesizeKnownDay(t *testing.T) {
	synth := NewPozoExtraSynthesizer(99)

	records := []models.DrawRecord{
		{Sorteo: "TRADICIONAL", Numeros: "05 - 18 - 19 - 28 - 39 - 40"},
		{Sorteo: "LA SEGUNDA", Numeros: "17 - 18 - 19 - 24 - 25 - 43"},
		{Sorteo: "REVANCHA", Numeros: "00 - 09 - 11 - 38 - 40 - 42"},
		{Sorteo: "SIEMPRE SALE", Numeros: "03 - 04 - 20 - 27 - 31 - 41"},
	}

	result := synth.Synthesize(records)
	require.NotNil(t, result)
	assert.Equal(t, PozoExtraLabel, result.Sorteo)
	assert.Equal(t, "00 - 05 - 09 - 11 - 17 - 18 - 19 - 24 - 25 - 28 - 38 - 39 - 40 - 42 - 43", result.Numeros)
}

func TestSynthesizeRequiresThreeDraws(t *testing.T) {
	synth := NewPozoExtraSynthesizer(99)

	assert.Nil(t, synth.Synthesize(nil))
	assert.Nil(t, synth.Synthesize([]models.DrawRecord{
		{Sorteo: "TRADICIONAL", Numeros: "01 - 02 - 03 - 04 - 05 - 06"},
		{Sorteo: "LA SEGUNDA", Numeros: "07 - 08 - 09 - 10 - 11 - 12"},
	}))
}

func TestSynthesizeNoParsableNumbers(t *testing.T) {
	synth := NewPozoExtraSynthesizer(99)

	result := synth.Synthesize([]models.DrawRecord{
		{Sorteo: "A", Numeros: "garbage"},
		{Sorteo: "B", Numeros: ""},
		{Sorteo: "C", Numeros: "x - y - z"},
	})
	assert.Nil(t, result)
}

func TestSynthesizeDropsOutOfRangeTokens(t *testing.T) {
	synth := NewPozoExtraSynthesizer(45)

	result := synth.Synthesize([]models.DrawRecord{
		{Sorteo: "A", Numeros: "01 - 46 - 99"},
		{Sorteo: "B", Numeros: "02 - 50"},
		{Sorteo: "C", Numeros: "03"},
	})
	require.NotNil(t, result)
	assert.Equal(t, "01 - 02 - 03", result.Numeros)
}

func TestSynthesizeDependsOnPosition(t *testing.T) {
	synth := NewPozoExtraSynthesizer(99)

	records := []models.DrawRecord{
		{Sorteo: "A", Numeros: "01 - 02 - 03"},
		{Sorteo: "B", Numeros: "04 - 05 - 06"},
		{Sorteo: "C", Numeros: "07 - 08 - 09"},
		{Sorteo: "D", Numeros: "40 - 41 - 42"},
	}
	reversed := []models.DrawRecord{records[3], records[2], records[1], records[0]}

	forward := synth.Synthesize(records)
	backward := synth.Synthesize(reversed)
	require.NotNil(t, forward)
	require.NotNil(t, backward)

	// The first three by position feed the union, so flipping the order
	// swaps which draw is left out
	assert.Equal(t, "01 - 02 - 03 - 04 - 05 - 06 - 07 - 08 - 09", forward.Numeros)
	assert.Equal(t, "04 - 05 - 06 - 07 - 08 - 09 - 40 - 41 - 42", backward.Numeros)
}

func TestSynthesizeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	synth := NewPozoExtraSynthesizer(99)

	properties.Property("is deterministic", prop.ForAll(
		func(draws [][]int) bool {
			records := recordsFromNumbers(draws)
			first := synth.Synthesize(records)
			second := synth.Synthesize(records)
			if first == nil || second == nil {
				return first == second
			}
			return first.Numeros == second.Numeros
		},
		genDraws(3),
	))

	properties.Property("ignores draws beyond the third", prop.ForAll(
		func(draws [][]int, extra []int) bool {
			records := recordsFromNumbers(draws)
			extended := recordsFromNumbers(append(append([][]int{}, draws...), extra))
			return synth.Synthesize(records).Numeros == synth.Synthesize(extended).Numeros
		},
		genDraws(3),
		gen.SliceOfN(6, gen.IntRange(0, 45)),
	))

	properties.Property("output is sorted, unique and zero-padded", prop.ForAll(
		func(draws [][]int) bool {
			result := synth.Synthesize(recordsFromNumbers(draws))
			if result == nil {
				return false
			}
			tokens := strings.Split(result.Numeros, " - ")
			values := make([]int, len(tokens))
			for i, token := range tokens {
				if len(token) != 2 {
					return false
				}
				v, err := strconv.Atoi(token)
				if err != nil {
					return false
				}
				values[i] = v
			}
			if !sort.IntsAreSorted(values) {
				return false
			}
			for i := 1; i < len(values); i++ {
				if values[i] == values[i-1] {
					return false
				}
			}
			return true
		},
		genDraws(3),
	))

	properties.Property("is idempotent over its own output", prop.ForAll(
		func(draws [][]int) bool {
			first := synth.Synthesize(recordsFromNumbers(draws))
			if first == nil {
				return false
			}
			again := synth.Synthesize([]models.DrawRecord{*first, *first, *first})
			return again != nil && again.Numeros == first.Numeros
		},
		genDraws(3),
	))

	properties.TestingRun(t)
}
