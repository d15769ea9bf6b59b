package messaging

import "github.com/matst80/slask-catalog/pkg/types"

type refreshKey struct {
	flags   types.ControlFlags
	refresh bool
}

// MergeRefreshRequests folds a batch of requests into one request per flag
// and refresh combination. A request for all fields absorbs the named ones.
// The order of first appearance is kept.
func MergeRefreshRequests(requests []RefreshRequest) []RefreshRequest {
	merged := make(map[refreshKey]*RefreshRequest)
	seen := make(map[refreshKey]map[string]struct{})
	order := make([]refreshKey, 0)
	for _, req := range requests {
		key := refreshKey{flags: req.Flags, refresh: req.Refresh}
		current, ok := merged[key]
		if !ok {
			current = &RefreshRequest{Flags: req.Flags, Refresh: req.Refresh, Names: []string{}}
			merged[key] = current
			seen[key] = make(map[string]struct{})
			order = append(order, key)
		} else if current.Names == nil {
			continue
		}
		if len(req.Names) == 0 {
			current.Names = nil
			continue
		}
		for _, name := range req.Names {
			if _, dup := seen[key][name]; dup || name == "" {
				continue
			}
			seen[key][name] = struct{}{}
			current.Names = append(current.Names, name)
		}
	}
	ret := make([]RefreshRequest, 0, len(order))
	for _, key := range order {
		if m := merged[key]; m.Names == nil || len(m.Names) > 0 {
			ret = append(ret, *m)
		}
	}
	return ret
}
