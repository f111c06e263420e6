package auth

import (
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Verifier parses tokens and remembers the result for a while, so a client
// polling with the same token does not pay for an HMAC check every time.
type Verifier struct {
	secret []byte
	cache  *expirable.LRU[string, *Principal]
	now    func() time.Time
}

func NewVerifier(secret []byte, size int, ttl time.Duration) *Verifier {
	return &Verifier{
		secret: secret,
		cache:  expirable.NewLRU[string, *Principal](size, nil, ttl),
		now:    time.Now,
	}
}

// Verify returns the principal of token. A cached principal whose token has
// since expired is evicted and reported as common.ErrTokenExpired.
func (v *Verifier) Verify(token string) (*Principal, error) {
	if p, ok := v.cache.Get(token); ok {
		if v.now().Before(p.ExpiresAt) {
			return p, nil
		}
		v.cache.Remove(token)
		return nil, common.ErrTokenExpired
	}

	p, err := ParseToken(token, v.secret)
	if err != nil {
		return nil, err
	}
	v.cache.Add(token, p)
	return p, nil
}

// Issue signs a token for p with the verifier's secret.
func (v *Verifier) Issue(p Principal, validity time.Duration) (string, time.Time, error) {
	return GenerateToken(p, v.secret, validity)
}
