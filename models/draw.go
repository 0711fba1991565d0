package models

// DrawRecord is a single extracted draw result: the draw-type label plus the
// display string of its numbers ("NN - NN - ..."). Records are created fresh
// on every extraction pass and discarded after being persisted or folded into
// a Pozo Extra.
type DrawRecord struct {
	Sorteo  string `json:"sorteo"`
	Numeros string `json:"numeros"`
}

// StoredDraw is the persisted counterpart of DrawRecord. Timestamp is the
// capture time and exists for audit only; query ordering always uses the
// surrogate id.
type StoredDraw struct {
	ID        int64  `json:"id"`
	Fecha     string `json:"fecha"`
	Sorteo    string `json:"sorteo"`
	Numeros   string `json:"numeros"`
	Timestamp string `json:"timestamp"`
}

// DayResults groups one day's draws for the multi-day listing endpoint.
type DayResults struct {
	Fecha   string       `json:"fecha"`
	Sorteos []DrawRecord `json:"sorteos"`
}

// RankedDay is a single day addressed by its recency rank (1 = most recent).
type RankedDay struct {
	Numero  int          `json:"numero"`
	Fecha   string       `json:"fecha"`
	Sorteos []DrawRecord `json:"sorteos"`
}
