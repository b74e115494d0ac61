package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the API process.
// All values must come from env (or env-file loaded by the process runner).
// No business logic should depend on raw environment variables.
type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Twilio   TwilioConfig
	LLM      LLMConfig
	Speech   SpeechConfig
	Calendar CalendarConfig
	Session  SessionConfig
}

type AppConfig struct {
	Env  string
	Port int

	// PublicBaseURL is the externally reachable base URL of this process
	// (e.g. an ngrok tunnel in local dev). Webhook callback URLs and audio
	// file URLs are built from it.
	PublicBaseURL string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// SSLMode accepts: disable, require, verify-ca, verify-full
	SSLMode string
}

// RedisConfig is optional: an empty Host disables the catalog cache entirely.
type RedisConfig struct {
	Host string
	Port int
}

type AuthConfig struct {
	JWTSecret      string
	JWTIssuer      string
	JWTAudience    string
	AccessTokenTTL time.Duration
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	// Number is the E.164 caller id outbound calls are placed from.
	Number string
}

type LLMConfig struct {
	GroqAPIKey string
	Model      string
}

type SpeechConfig struct {
	// ElevenLabsAPIKey is optional; when empty, replies are delivered as
	// provider-side text-to-speech (Say) instead of synthesized audio.
	ElevenLabsAPIKey string
	VoiceID          string

	// AudioDir is where synthesized mp3 files are written; served under /audio.
	AudioDir string

	// Language and Voice configure the provider-side Say fallback.
	Language string
	Voice    string
}

type CalendarConfig struct {
	// WebhookURL is optional; when empty, no calendar events are sent.
	WebhookURL string

	// UTCOffsetHours is the fixed offset the model's local datetimes are
	// interpreted in before conversion to UTC.
	UTCOffsetHours int
}

type SessionConfig struct {
	// IdleTTL bounds how long an untouched call session is retained.
	IdleTTL time.Duration
}

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}
	c.App.PublicBaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL")), "/")

	c.DB.Host = strings.TrimSpace(os.Getenv("DB_HOST"))
	{
		n, err := mustInt("DB_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.DB.Port = n
	}
	c.DB.User = strings.TrimSpace(os.Getenv("DB_USER"))
	c.DB.Password = os.Getenv("DB_PASSWORD")
	c.DB.Name = strings.TrimSpace(os.Getenv("DB_NAME"))
	c.DB.SSLMode = strings.TrimSpace(os.Getenv("DB_SSLMODE"))

	// Redis is optional; only parse the port when a host is configured.
	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	if c.Redis.Host != "" {
		n, err := mustInt("REDIS_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Redis.Port = n
	}

	c.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	c.Auth.JWTIssuer = strings.TrimSpace(os.Getenv("JWT_ISSUER"))
	c.Auth.JWTAudience = strings.TrimSpace(os.Getenv("JWT_AUDIENCE"))
	{
		d, err := mustDuration("JWT_ACCESS_TTL")
		if err != nil {
			parseErrs = append(parseErrs, err)
		}
		c.Auth.AccessTokenTTL = d
	}

	c.Twilio.AccountSID = strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID"))
	c.Twilio.AuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	c.Twilio.Number = strings.TrimSpace(os.Getenv("TWILIO_NUMBER"))

	c.LLM.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	c.LLM.Model = strings.TrimSpace(os.Getenv("GROQ_MODEL"))

	c.Speech.ElevenLabsAPIKey = os.Getenv("ELEVENLABS_API_KEY")
	c.Speech.VoiceID = strings.TrimSpace(os.Getenv("ELEVENLABS_VOICE_ID"))
	c.Speech.AudioDir = strings.TrimSpace(os.Getenv("AUDIO_DIR"))
	c.Speech.Language = strings.TrimSpace(os.Getenv("SPEECH_LANGUAGE"))
	c.Speech.Voice = strings.TrimSpace(os.Getenv("SPEECH_VOICE"))

	c.Calendar.WebhookURL = strings.TrimSpace(os.Getenv("CALENDAR_WEBHOOK_URL"))
	if v := strings.TrimSpace(os.Getenv("LOCAL_UTC_OFFSET_HOURS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			parseErrs = append(parseErrs, fmt.Errorf("LOCAL_UTC_OFFSET_HOURS must be an integer, got %q", v))
		}
		c.Calendar.UTCOffsetHours = n
	} else {
		c.Calendar.UTCOffsetHours = 3
	}

	{
		d, err := mustDuration("SESSION_IDLE_TTL")
		if err != nil {
			parseErrs = append(parseErrs, err)
		}
		c.Session.IdleTTL = d
	}

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}
	if c.App.PublicBaseURL == "" {
		errs = append(errs, errors.New("PUBLIC_BASE_URL is required"))
	} else if !strings.HasPrefix(c.App.PublicBaseURL, "http://") && !strings.HasPrefix(c.App.PublicBaseURL, "https://") {
		errs = append(errs, fmt.Errorf("PUBLIC_BASE_URL must be an absolute http(s) URL, got %q", c.App.PublicBaseURL))
	}

	if c.DB.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
	}
	if c.DB.User == "" {
		errs = append(errs, errors.New("DB_USER is required"))
	}
	if c.DB.Name == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if strings.TrimSpace(c.DB.SSLMode) == "" {
		if c.IsProduction() {
			errs = append(errs, errors.New("DB_SSLMODE is required in production"))
		} else {
			// Local-friendly default; production must be explicit.
			c.DB.SSLMode = "disable"
		}
	}
	if c.DB.SSLMode != "" && !isValidSSLMode(c.DB.SSLMode) {
		errs = append(errs, fmt.Errorf("DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.DB.SSLMode))
	}

	if c.Redis.Host != "" && (c.Redis.Port <= 0 || c.Redis.Port > 65535) {
		errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.IsProduction() {
		if c.Auth.JWTIssuer == "" {
			errs = append(errs, errors.New("JWT_ISSUER is required in production"))
		}
		if c.Auth.JWTAudience == "" {
			errs = append(errs, errors.New("JWT_AUDIENCE is required in production"))
		}
	}
	if c.Auth.AccessTokenTTL <= 0 {
		c.Auth.AccessTokenTTL = 15 * time.Minute
	}

	if c.Twilio.AccountSID == "" {
		errs = append(errs, errors.New("TWILIO_ACCOUNT_SID is required"))
	}
	if c.Twilio.AuthToken == "" {
		errs = append(errs, errors.New("TWILIO_AUTH_TOKEN is required"))
	}
	if c.Twilio.Number == "" {
		errs = append(errs, errors.New("TWILIO_NUMBER is required"))
	}

	if c.LLM.GroqAPIKey == "" {
		errs = append(errs, errors.New("GROQ_API_KEY is required"))
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "llama-3.3-70b-versatile"
	}

	if c.Speech.VoiceID == "" {
		c.Speech.VoiceID = "21m00Tcm4TlvDq8ikWAM"
	}
	if c.Speech.AudioDir == "" {
		c.Speech.AudioDir = "public/audio"
	}
	if c.Speech.Language == "" {
		c.Speech.Language = "tr-TR"
	}
	if c.Speech.Voice == "" {
		c.Speech.Voice = "Polly.Filiz"
	}

	if c.Calendar.UTCOffsetHours < -12 || c.Calendar.UTCOffsetHours > 14 {
		errs = append(errs, fmt.Errorf("LOCAL_UTC_OFFSET_HOURS must be within [-12, 14], got %d", c.Calendar.UTCOffsetHours))
	}

	if c.Session.IdleTTL <= 0 {
		c.Session.IdleTTL = 30 * time.Minute
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) PostgresDSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func (c Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

// LocalZone is the fixed-offset location model output datetimes are
// interpreted in (see internal/calendar).
func (c Config) LocalZone() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", c.Calendar.UTCOffsetHours), c.Calendar.UTCOffsetHours*3600)
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func mustDuration(key string) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration (e.g. 30m), got %q", key, v)
	}
	return d, nil
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
