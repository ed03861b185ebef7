package fattyacid

// saturated holds the even-chain saturated acids C2:0 to C32:0, indexed by
// carbon count.
var saturated = func() (table [33]FattyAcid) {
	for c := uint8(2); c <= 32; c += 2 {
		table[c] = FattyAcid{carbons: c}
	}
	return table
}()

// SaturatedOf returns the even-chain saturated acid with the given carbons.
func SaturatedOf(carbons uint8) (FattyAcid, bool) {
	if carbons < 2 || carbons > 32 || carbons%2 != 0 {
		return FattyAcid{}, false
	}
	return saturated[carbons], true
}
