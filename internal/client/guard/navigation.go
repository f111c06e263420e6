package guard

import (
	"net/url"
	"strings"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
)

// Navigation is a requested destination.
type Navigation struct {
	Path   string
	Query  url.Values
	Params map[string]string
}

// TenantHint is the tenant declared by the navigation itself: the tenantId
// query parameter, else the tenantId path parameter.
func (n Navigation) TenantHint() string {
	if v := n.Query.Get(common.TenantParam); v != "" {
		return v
	}
	return n.Params[common.TenantParam]
}

// URL renders the navigation as a path with query string.
func (n Navigation) URL() string {
	if len(n.Query) == 0 {
		return n.Path
	}
	return n.Path + "?" + n.Query.Encode()
}

// ParseNavigation splits raw into path and query and extracts path
// parameters using pattern, e.g. "/admin/:tenantId/usage". An empty pattern
// extracts nothing. ok is false when the path does not fit the pattern.
func ParseNavigation(raw, pattern string) (Navigation, bool, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Navigation{}, false, err
	}
	nav := Navigation{Path: u.Path, Query: u.Query(), Params: map[string]string{}}
	if pattern == "" {
		return nav, true, nil
	}

	params, ok := MatchPath(pattern, u.Path)
	if !ok {
		return nav, false, nil
	}
	nav.Params = params
	return nav, true, nil
}

// MatchPath matches path against a pattern whose ":name" segments capture
// parameters.
func MatchPath(pattern, path string) (map[string]string, bool) {
	ps := splitPath(pattern)
	xs := splitPath(path)
	if len(ps) != len(xs) {
		return nil, false
	}

	params := make(map[string]string)
	for i, p := range ps {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			if xs[i] == "" {
				return nil, false
			}
			params[name] = xs[i]
			continue
		}
		if p != xs[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
