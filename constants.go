package rangehunter

// nonHardenedCount is the number of non-hardened BIP32 child indices,
// 2^31, the N divisor the counter decomposition formula uses.
const nonHardenedCount = 1 << 31

// MaxMatches bounds how many hits BatchAddressSearch records before it
// reports overflow instead of silently dropping further matches.
const MaxMatches = 1000
