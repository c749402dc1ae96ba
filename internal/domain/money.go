package domain

// All monetary values are int64 minor units (paise for INR). Fees are charged
// in whole currency units, so the platform fee is rounded half-up to the
// nearest 100 minor units.

const (
	MinorUnitsPerUnit = 100

	// DefaultPlatformFeeBps is the 2% platform fee policy.
	DefaultPlatformFeeBps = 200
)

// PlatformFee computes feeBps of amount, rounded half-up to the nearest whole
// currency unit. amount and the result are minor units.
func PlatformFee(amount int64, feeBps int64) int64 {
	if amount <= 0 || feeBps <= 0 {
		return 0
	}
	// amount*feeBps is in units of 1/10_000 minor units; a whole currency
	// unit is 10_000 * 100 of those.
	units := (amount*feeBps + 500_000) / 1_000_000
	return units * MinorUnitsPerUnit
}

// ToMinor converts whole currency units to minor units.
func ToMinor(units int64) int64 {
	return units * MinorUnitsPerUnit
}
