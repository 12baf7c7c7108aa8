package domain

// Row is one line of the report: a label tag (or AllLabel) and its counts.
type Row struct {
	Label  string
	Opened int
	Closed int
	Active int
}

// Report is everything the renderer needs to print a summary.
// Rows[0] is always the AllLabel row; label rows follow in ascending order.
type Report struct {
	ProjectPath string
	Window      Window
	Rows        []Row
}
