package docfill

// FillListener is notified around each cell rewrite. Implement it to audit
// writes or to veto individual cells.
type FillListener interface {
	// BeforeRewriteCell is called before the cell at ref receives value.
	// Return false to leave the cell untouched.
	BeforeRewriteCell(ref CellRef, marker string, value Value) bool

	// AfterRewriteCell is called after the rewrite attempt; err is non-nil when it failed.
	AfterRewriteCell(ref CellRef, marker string, value Value, err error)
}
