package services

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

const currentPageHTML = `
<html><body>
<table>
  <tr><td><span class="sorteo">TRADICIONAL</span></td></tr>
  <tr>
    <td class="nro">05</td><td class="nro">18</td><td class="nro">19</td>
    <td class="nro">28</td><td class="nro">39</td><td class="nro">40</td>
  </tr>
</table>
<table>
  <tr><td><span class="sorteo">LA SEGUNDA</span></td></tr>
  <tr>
    <td class="nro">17</td><td class="nro">18</td><td class="nro">19</td>
    <td class="nro">24</td><td class="nro">25</td><td class="nro">43</td>
  </tr>
</table>
<table>
  <tr><td><span class="sorteo">SIN NUMEROS</span></td></tr>
  <tr><td>no number cells here</td></tr>
</table>
</body></html>`

func TestExtractCurrent(t *testing.T) {
	records := ExtractCurrent(docFromHTML(t, currentPageHTML))

	require.Len(t, records, 2)
	assert.Equal(t, "TRADICIONAL", records[0].Sorteo)
	assert.Equal(t, "05 - 18 - 19 - 28 - 39 - 40", records[0].Numeros)
	assert.Equal(t, "LA SEGUNDA", records[1].Sorteo)
	assert.Equal(t, "17 - 18 - 19 - 24 - 25 - 43", records[1].Numeros)
}

func TestExtractCurrentEmptyPage(t *testing.T) {
	records := ExtractCurrent(docFromHTML(t, "<html><body><p>nada</p></body></html>"))
	assert.Empty(t, records)
}

const archivedPageHTML = `
<html><body>
<h3 class="verdeyblanco">SORTEO TRADICIONAL</h3>
<p class="numeros">05 - 18 - 19 - 28 - 39 - 40</p>
<h3 class="verdeyblanco">SORTEO LA SEGUNDA DEL QUINI</h3>
<p class="numeros">17 - 18 - 19 - 24 - 25 - 43</p>
<h3 class="verdeyblanco">SORTEO REVANCHA</h3>
<p class="numeros">00 - 09 - 11 - 38 - 40 - 42</p>
<h3 class="verdeyblanco">SORTEO QUINI QUE SIEMPRE SALE</h3>
<p class="numeros">03 - 04 - 20 - 27 - 31 - 41</p>
<h3 class="verdeyblanco">POZO EXTRA</h3>
<p class="numeros">00 - 03 - 04 - 05 - 09 - 11</p>
<h3 class="verdeyblanco">SORTEO ROTO</h3>
<p class="numeros">not numbers at all</p>
</body></html>`

func TestExtractArchived(t *testing.T) {
	records := ExtractArchived(docFromHTML(t, archivedPageHTML))

	require.Len(t, records, 4)
	assert.Equal(t, "TRADICIONAL", records[0].Sorteo)
	assert.Equal(t, "LA SEGUNDA", records[1].Sorteo)
	assert.Equal(t, "REVANCHA", records[2].Sorteo)
	assert.Equal(t, "SIEMPRE SALE", records[3].Sorteo)
	assert.Equal(t, "00 - 09 - 11 - 38 - 40 - 42", records[2].Numeros)
}

func TestNormalizeArchivedLabel(t *testing.T) {
	assert.Equal(t, "TRADICIONAL", normalizeArchivedLabel("SORTEO TRADICIONAL"))
	assert.Equal(t, "LA SEGUNDA", normalizeArchivedLabel("SORTEO LA SEGUNDA DEL QUINI"))
	assert.Equal(t, "SIEMPRE SALE", normalizeArchivedLabel("SORTEO QUINI QUE SIEMPRE SALE"))
	assert.Equal(t, "REVANCHA", normalizeArchivedLabel("  SORTEO REVANCHA  "))
	assert.Equal(t, "", normalizeArchivedLabel("POZO EXTRA"))
	assert.Equal(t, "", normalizeArchivedLabel("SORTEO POZO EXTRA"))
	assert.Equal(t, "", normalizeArchivedLabel("   "))
}

func TestParseArchiveLinkDate(t *testing.T) {
	fecha, ok := ParseArchiveLinkDate("Sorteo 3301 del dia 07/09/2025")
	require.True(t, ok)
	assert.Equal(t, "2025-09-07", fecha)

	_, ok = ParseArchiveLinkDate("Sorteo sin fecha")
	assert.False(t, ok)
}

func TestNewDefaultScraperConfiguration(t *testing.T) {
	cfg := NewDefaultScraperConfiguration("")
	assert.Equal(t, "https://www.quini-6-resultados.com.ar", cfg.BaseURL)
	assert.Equal(t, 3, cfg.MaxRetryAttempts)

	cfg = NewDefaultScraperConfiguration("http://localhost:8080")
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
}
