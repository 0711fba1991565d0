package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Federico-Chandia/Scrapper-quini6/models"
)

// PozoExtraLabel is the draw name assigned to the synthesized record
const PozoExtraLabel = "POZO EXTRA"

// numberSeparator joins drawn numbers in their stored string form
const numberSeparator = " - "

// PozoExtraSynthesizer builds the derived POZO EXTRA record for a day: the
// set union of the numbers drawn in the first three draws, sorted ascending.
type PozoExtraSynthesizer struct {
	maxNumber int
}

// NewPozoExtraSynthesizer creates a synthesizer accepting ball values in the
// range [0, maxNumber].
func NewPozoExtraSynthesizer(maxNumber int) *PozoExtraSynthesizer {
	if maxNumber <= 0 {
		maxNumber = 99
	}
	return &PozoExtraSynthesizer{maxNumber: maxNumber}
}

// Synthesize derives the POZO EXTRA record from a day's draw records. It
// requires at least three source draws and returns nil when there are fewer,
// or when no valid numbers can be parsed out of them. Tokens that are not
// numbers in range are silently dropped.
func (p *PozoExtraSynthesizer) Synthesize(records []models.DrawRecord) *models.DrawRecord {
	if len(records) < 3 {
		return nil
	}

	seen := make(map[int]bool)
	for _, record := range records[:3] {
		for _, token := range strings.Split(record.Numeros, numberSeparator) {
			value, err := strconv.Atoi(strings.TrimSpace(token))
			if err != nil || value < 0 || value > p.maxNumber {
				continue
			}
			seen[value] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}

	numbers := make([]int, 0, len(seen))
	for value := range seen {
		numbers = append(numbers, value)
	}
	sort.Ints(numbers)

	formatted := make([]string, len(numbers))
	for i, value := range numbers {
		formatted[i] = fmt.Sprintf("%02d", value)
	}

	return &models.DrawRecord{
		Sorteo:  PozoExtraLabel,
		Numeros: strings.Join(formatted, numberSeparator),
	}
}
