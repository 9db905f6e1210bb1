package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "strings" // strings splits the supported-locale list
    "time"    // time parses duration values
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The gateway itself owns no data: everything it
// needs to know is where the identity endpoint and the store API live, how
// session cookies are signed and how long server-side sessions last, and
// which locale codes the URL space is allowed to carry.
type Config struct {
    Env             string        // application environment (e.g. "dev", "prod")
    Port            string        // HTTP port to listen on
    LogLevel        string        // minimum log level (debug/info/warn/error)
    IdentityURL     string        // base URL of the remote identity service
    IdentityAPIKey  string        // optional X-API-Key header value for identity calls
    IdentityTimeout time.Duration // transport timeout for identity calls
    StoreAPIURL     string        // base URL of the upstream store CRUD API
    StoreAPIKey     string        // optional X-API-Key header value for proxied store calls
    SessionSecret   string        // secret used to sign session cookies
    SessionTTL      time.Duration // lifetime of a server-side session entry
    Locales         []string      // supported locale codes
    DefaultLocale   string        // locale used when the URL carries none
    MinPasswordLen  int           // shortest password accepted before any identity call
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    cfg := Config{
        Env:             must("APP_ENV"),                                 // environment (dev/test/prod)
        Port:            must("APP_PORT"),                                // port to bind the HTTP server
        LogLevel:        envStr("LOG_LEVEL", "info"),                     // log verbosity
        IdentityURL:     must("IDENTITY_URL"),                            // identity service base URL
        IdentityAPIKey:  os.Getenv("IDENTITY_API_KEY"),                   // deployment API key (empty allowed)
        IdentityTimeout: envDur("IDENTITY_TIMEOUT", 10*time.Second),      // identity transport timeout
        StoreAPIURL:     must("STORE_API_URL"),                           // upstream store API base URL
        StoreAPIKey:     os.Getenv("STORE_API_KEY"),                      // store API key (empty allowed)
        SessionSecret:   must("SESSION_SECRET"),                          // cookie signing secret
        SessionTTL:      envDur("SESSION_TTL", 24*time.Hour),             // server-side session lifetime
        Locales:         parseLocales(envStr("LOCALES", "en,fa")),        // supported locale codes
        DefaultLocale:   strings.ToLower(envStr("DEFAULT_LOCALE", "en")), // fallback locale
        MinPasswordLen:  envInt("LOGIN_MIN_PASSWORD_LEN", 4),             // local password length policy
    }
    if len(cfg.Locales) == 0 {
        log.Fatalf("LOCALES must list at least one locale code")
    }
    return cfg
}

// parseLocales splits a comma-separated locale list into lower-cased codes,
// dropping empty entries.
func parseLocales(s string) []string {
    var out []string
    for _, p := range strings.Split(s, ",") {
        p = strings.TrimSpace(strings.ToLower(p))
        if p != "" {
            out = append(out, p)
        }
    }
    return out
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// Env helpers with defaults, shared across the config files in this package.
func envStr(k, d string) string { if v := os.Getenv(k); v != "" { return v }; return d }

func envBool(k string, d bool) bool {
    v := os.Getenv(k)
    if v == "" { return d }
    switch v {
    case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON": return true
    case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF": return false
    }
    return d
}

func envInt(k string, d int) int {
    v := os.Getenv(k); if v == "" { return d }
    if n, err := strconv.Atoi(v); err == nil { return n }
    return d
}

func envDur(k string, d time.Duration) time.Duration {
    v := os.Getenv(k); if v == "" { return d }
    if dur, err := time.ParseDuration(v); err == nil { return dur }
    return d
}
