package document

import (
	"math/rand/v2"
	"strconv"
	"sync"
)

// keySpace is the number of distinct random block keys (32^5).
const keySpace = 1 << 25

var (
	keysMu   sync.Mutex
	seenKeys = make(map[string]struct{})
)

// GenerateKey returns a short random block key not handed out before by
// this process.
func GenerateKey() string {
	keysMu.Lock()
	defer keysMu.Unlock()

	for {
		key := strconv.FormatInt(rand.Int64N(keySpace), 32)
		if _, seen := seenKeys[key]; seen {
			continue
		}

		seenKeys[key] = struct{}{}

		return key
	}
}
