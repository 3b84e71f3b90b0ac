package engine

// Params is the caller-supplied boosting configuration. Keys follow the
// engine's naming, including its aliases.
type Params map[string]interface{}

// aliases maps a canonical key to every accepted spelling, canonical
// first.
var aliases = map[string][]string{
	"tree_learner":      {"tree_learner", "tree", "tree_type", "tree_learner_type"},
	"local_listen_port": {"local_listen_port", "local_port", "port"},
	"num_threads":       {"num_threads", "num_thread", "nthread", "nthreads", "n_jobs"},
	"time_out":          {"time_out"},
}

func Aliases(key string) []string {
	if as, ok := aliases[key]; ok {
		return as
	}
	return []string{key}
}

func (p Params) Clone() Params {
	q := make(Params, len(p))
	for k, v := range p {
		q[k] = v
	}
	return q
}

// Resolve returns the value of the first present alias of key.
func (p Params) Resolve(key string) (interface{}, bool) {
	for _, a := range Aliases(key) {
		if v, ok := p[a]; ok {
			return v, true
		}
	}
	return nil, false
}

func (p Params) ResolveString(key string) (string, bool) {
	v, ok := p.Resolve(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// ResolveInt resolves an alias to an int, accepting the numeric types a
// decoded YAML or JSON config may carry.
func (p Params) ResolveInt(key string, def int) int {
	v, ok := p.Resolve(key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}

// Strip deletes every alias of key.
func (p Params) Strip(key string) {
	for _, a := range Aliases(key) {
		delete(p, a)
	}
}
