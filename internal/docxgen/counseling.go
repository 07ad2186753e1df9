package docxgen

// Counseling returns a starter counseling form. Its editable cells line up with
// the keys of the default counseling mapping; the two bare "EDIT" cells are
// signature blocks that are normally filled by hand.
func Counseling() *Builder {
	label := CellStyle{Align: "center", Font: "Times New Roman", Size: 8, Bold: true}
	value := CellStyle{Align: "center"}

	b := New()
	b.Paragraph("COUNSELING WORKSHEET")
	b.StyledTable(label, []string{"LAST NAME", "FIRST NAME", "MI", "RANK", "EDIPI"})
	b.StyledTable(value,
		[]string{"EDIT_lastName", "EDIT_FirstName", "Edit_MI", "EDIT_Rank", "EDIT_EDIPI"},
		[]string{"DOR", "PMOS", "BILMOS", "OCCASION", "PERIOD"},
		[]string{"EDIT_DOR", "EDIT_PMOS", "EDIT_BILMOS", "EDIT_Occasion", "EDIT_Period"},
	)
	b.Paragraph("REPORTING SENIOR")
	b.Table(
		[]string{"LAST NAME", "FIRST NAME", "MI", "RANK", "BILLET TITLE"},
		[]string{"EDIT_RSLastName", "EDIT_RSFirstName", "EDIT_RSMI", "EDIT_RSRank", "EDIT_BilletTitle"},
	)
	b.Table(
		[]string{"MOS / BILLET DESCRIPTION"},
		[]string{"EDIT_MOSDESC"},
		[]string{"TOPICS DISCUSSED"},
		[]string{"EDIT_Topics"},
		[]string{"MAJOR ACCOMPLISHMENTS / SIGNIFICANT EVENTS THIS PERIOD"},
		[]string{"EDIT_Accomplishments"},
		[]string{"PERFORMANCE EVALUATION THIS PERIOD"},
		[]string{"EDIT_Performance"},
		[]string{"TASKS ASSIGNED NEXT PERIOD / GOALS"},
		[]string{"EDIT_Goals"},
		[]string{"ADDITIONAL COMMENTS"},
		[]string{"EDIT_Comments"},
	)
	b.Table(
		[]string{"SIGNATURE (MARINE)", "DATE", "SIGNATURE (REPORTING SENIOR)", "DATE"},
		[]string{"EDIT", "EDIT_Date", "EDIT", "EDIT_RSDate"},
	)
	return b
}
