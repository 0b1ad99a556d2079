package ultradns

import (
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	defaultHost      = "api.ultradns.com"
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "libdns-ultradns"
	envPrefix        = "ULTRADNS_"
)

// Credentials holds either a username and password or a pre-issued bearer token.
type Credentials struct {
	Username string
	Password string

	// AccessToken is used when Username is empty.
	AccessToken string
	// RefreshToken renews AccessToken on expiry. Without it the session lasts about an hour.
	RefreshToken string
}

func (c Credentials) useToken() bool {
	return c.Username == "" && c.AccessToken != ""
}

func (c Credentials) validate() error {
	switch {
	case c.Username != "" && c.AccessToken != "":
		return &ValidationError{Field: "credentials", Reason: "either username or access token must be set, not both"}
	case c.Username != "" && c.Password == "":
		return &ValidationError{Field: "password", Reason: "required when providing a username"}
	case c.Username == "" && c.AccessToken == "":
		return &ValidationError{Field: "credentials", Reason: "username or access token is required"}
	}

	return nil
}

// Config describes how requests are built. The zero value talks to the production API over HTTPS.
type Config struct {
	// UseHTTP switches to plaintext HTTP. Intended for local testing only.
	UseHTTP bool
	// Host defaults to api.ultradns.com. A host with an explicit scheme is used verbatim.
	Host string
	// CustomHeaders are added to every request. Authorization, Content-Type and Accept are reserved.
	CustomHeaders map[string]string
	// Proxy is an optional proxy URL.
	Proxy string
	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool
	// Timeout bounds a single HTTP round trip.
	Timeout   time.Duration
	UserAgent string
	Poll      PollConfig

	// HTTPClient replaces the client built from Proxy, InsecureSkipVerify and Timeout.
	HTTPClient     *http.Client
	Logger         *zap.Logger
	Registerer     prometheus.Registerer
	TracerProvider trace.TracerProvider
}

func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = defaultHost
	}

	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}

	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}

	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}

	c.Poll = c.Poll.withDefaults()
	return c
}

// ConfigFromEnv reads ULTRADNS_* environment variables.
func ConfigFromEnv() (Config, error) {
	var in struct {
		UseHTTP            bool              `env:"USE_HTTP"`
		Host               string            `env:"HOST"`
		CustomHeaders      map[string]string `env:"CUSTOM_HEADERS"`
		Proxy              string            `env:"PROXY"`
		InsecureSkipVerify bool              `env:"INSECURE_SKIP_VERIFY"`
		Timeout            time.Duration     `env:"TIMEOUT"`
		UserAgent          string            `env:"USER_AGENT"`
		Poll               struct {
			InitialInterval time.Duration `env:"INITIAL_INTERVAL"`
			MaxInterval     time.Duration `env:"MAX_INTERVAL"`
			Multiplier      float64       `env:"MULTIPLIER"`
			MaxTries        uint          `env:"MAX_TRIES"`
			MaxElapsed      time.Duration `env:"MAX_ELAPSED"`
		} `envPrefix:"POLL_"`
	}

	if err := env.ParseWithOptions(&in, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}

	return Config{
		UseHTTP:            in.UseHTTP,
		Host:               in.Host,
		CustomHeaders:      in.CustomHeaders,
		Proxy:              in.Proxy,
		InsecureSkipVerify: in.InsecureSkipVerify,
		Timeout:            in.Timeout,
		UserAgent:          in.UserAgent,
		Poll: PollConfig{
			InitialInterval: in.Poll.InitialInterval,
			Multiplier:      in.Poll.Multiplier,
			MaxInterval:     in.Poll.MaxInterval,
			MaxTries:        in.Poll.MaxTries,
			MaxElapsed:      in.Poll.MaxElapsed,
		},
	}, nil
}

// CredentialsFromEnv reads ULTRADNS_USERNAME/PASSWORD or ULTRADNS_ACCESS_TOKEN/REFRESH_TOKEN.
func CredentialsFromEnv() (Credentials, error) {
	var in struct {
		Username     string `env:"USERNAME"`
		Password     string `env:"PASSWORD"`
		AccessToken  string `env:"ACCESS_TOKEN"`
		RefreshToken string `env:"REFRESH_TOKEN"`
	}

	if err := env.ParseWithOptions(&in, env.Options{Prefix: envPrefix}); err != nil {
		return Credentials{}, errors.Wrap(err, "parse env")
	}

	creds := Credentials(in)
	if err := creds.validate(); err != nil {
		return Credentials{}, err
	}

	return creds, nil
}
