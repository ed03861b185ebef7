package fattyacid

// Relative atomic masses (isotope-averaged, IUPAC conventional values).
const (
	MassC = 12.011
	MassH = 1.008
	MassO = 15.999
)
