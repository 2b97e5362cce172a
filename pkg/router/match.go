package router

// MatchResult is the route that handles a path and its captured parameters.
type MatchResult struct {
	Route  *CompiledRoute
	Params map[string]string
}

// ParamMatchers validates captured values by matcher name.
type ParamMatchers map[string]func(value string) bool

// Match returns the first route whose pattern matches path and whose
// matchers accept the captured values. The path is decoded with DecodePath
// and parameter values with DecodeParam before matchers see them. Matchers
// missing from fns accept everything, and absent optional or rest values
// are not checked. A path with invalid escapes matches nothing.
func (t *RouteTable) Match(path string, fns ParamMatchers) (*MatchResult, bool) {
	path, err := DecodePath(path)
	if err != nil {
		return nil, false
	}

	for i := range t.Routes {
		r := &t.Routes[i]
		re := r.Pattern.Regexp()
		if re == nil {
			continue
		}
		m := re.FindStringSubmatch(path)
		if m == nil {
			continue
		}

		params := make(map[string]string, len(r.Params))
		ok := true
		for k, p := range r.Params {
			v := ""
			if k+1 < len(m) {
				if v, err = DecodeParam(m[k+1]); err != nil {
					return nil, false
				}
			}
			if fn := fns[p.Matcher]; p.Matcher != "" && fn != nil && v != "" && !fn(v) {
				ok = false
				break
			}
			params[p.Name] = v
		}
		if ok {
			return &MatchResult{Route: r, Params: params}, true
		}
	}
	return nil, false
}
