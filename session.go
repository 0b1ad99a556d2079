package ultradns

// State is the credential state of a Transport.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	// StateFailed is terminal until Authenticate succeeds again.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// token is never mutated: a refresh installs a new value with the next generation.
type token struct {
	access     string
	refresh    string
	generation uint64
}

func (t token) next(access, refresh string) token {
	if refresh == "" {
		refresh = t.refresh
	}

	return token{
		access:     access,
		refresh:    refresh,
		generation: t.generation + 1,
	}
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
