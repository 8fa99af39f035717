package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Supabase SupabaseConfig
	PDF      PDFConfig
	Ventas   ERPDBConfig // gestión (rutas, facturas)
	Finan    ERPDBConfig // contabilidad (efectos/giros)
	Jobs     JobsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SupabaseConfig configuración del proveedor de identidad y del row store.
type SupabaseConfig struct {
	URL            string // base del REST (perfiles y notificaciones)
	Issuer         string // iss esperado en los JWT
	JWKSURL        string // endpoint del set de claves públicas
	Audience       string // aud esperado en los JWT
	ServiceRoleKey string // credencial privilegiada; nunca se loguea
	JWKSCacheTTL   time.Duration
	ReadyTimeout   time.Duration // timeout corto para el probe de readiness
}

// PDFConfig raíz del filesystem de PDFs (NAS montado).
type PDFConfig struct {
	BaseDir string
}

// ERPDBConfig configuración de una conexión de solo lectura al espejo del ERP.
type ERPDBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MinConns int
	MaxConns int
}

// DSN devuelve el connection string con URL encoding para caracteres especiales.
func (c ERPDBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JobConfig configuración de un job programado.
type JobConfig struct {
	Enabled     bool
	Hour        int
	Minute      int
	DefaultDias int // valor por defecto cuando el perfil no fija los días de aviso
}

// JobsConfig configuración del planificador y los tres jobs.
type JobsConfig struct {
	Timezone string // zona fija para la hora de disparo (ej. Europe/Madrid)
	Giro     JobConfig
	Reparto  JobConfig
	Oferta   JobConfig
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Valida los valores obligatorios: si falta
// alguno la aplicación no arranca.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración .env en el directorio de trabajo
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "portal-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Supabase: SupabaseConfig{
			URL:            getString(v, "SUPABASE_URL", ""),
			Issuer:         getString(v, "SUPABASE_ISS", ""),
			JWKSURL:        getString(v, "SUPABASE_JWKS_URL", ""),
			Audience:       getString(v, "SUPABASE_AUD", "authenticated"),
			ServiceRoleKey: getString(v, "SUPABASE_SERVICE_ROLE_KEY", ""),
			JWKSCacheTTL:   time.Duration(getInt(v, "JWKS_CACHE_TTL", 3600)) * time.Second,
			ReadyTimeout:   time.Duration(getInt(v, "READY_TIMEOUT", 2)) * time.Second,
		},
		PDF: PDFConfig{
			BaseDir: getString(v, "PDF_BASE_DIR", "./_pdfs/invoices_issued"),
		},
		Ventas: ERPDBConfig{
			Host:     getString(v, "ERP_DB_HOST", "localhost"),
			Port:     getInt(v, "ERP_DB_PORT", 5432),
			User:     getString(v, "ERP_DB_USER", ""),
			Password: getString(v, "ERP_DB_PASSWORD", ""),
			DBName:   getString(v, "ERP_DB_NAME", ""),
			SSLMode:  getString(v, "ERP_DB_SSLMODE", "disable"),
			MinConns: getInt(v, "ERP_DB_MIN_CONNS", 1),
			MaxConns: getInt(v, "ERP_DB_MAX_CONNS", 10),
		},
		Jobs: JobsConfig{
			Timezone: getString(v, "JOBS_TIMEZONE", "Europe/Madrid"),
			Giro: JobConfig{
				Enabled:     getBool(v, "GIRO_JOB_ENABLED", false),
				Hour:        getInt(v, "GIRO_JOB_HOUR", 7),
				Minute:      getInt(v, "GIRO_JOB_MINUTE", 0),
				DefaultDias: getInt(v, "GIRO_DEFAULT_DIAS_AVISO", 7),
			},
			Reparto: JobConfig{
				Enabled:     getBool(v, "REPARTO_JOB_ENABLED", false),
				Hour:        getInt(v, "REPARTO_JOB_HOUR", 7),
				Minute:      getInt(v, "REPARTO_JOB_MINUTE", 15),
				DefaultDias: getInt(v, "REPARTO_DEFAULT_DIAS_AVISO", 1),
			},
			Oferta: JobConfig{
				Enabled: getBool(v, "OFERTA_JOB_ENABLED", false),
				Hour:    getInt(v, "OFERTA_JOB_HOUR", 7),
				Minute:  getInt(v, "OFERTA_JOB_MINUTE", 30),
			},
		},
	}

	// La conexión de contabilidad reutiliza host y credenciales de gestión;
	// solo cambia el nombre de la base de datos.
	cfg.Finan = cfg.Ventas
	cfg.Finan.DBName = getString(v, "ERP_FINAN_DB_NAME", "")
	cfg.Finan.MinConns = getInt(v, "ERP_FINAN_DB_MIN_CONNS", cfg.Ventas.MinConns)
	cfg.Finan.MaxConns = getInt(v, "ERP_FINAN_DB_MAX_CONNS", cfg.Ventas.MaxConns)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate comprueba los valores obligatorios.
func (c *Config) validate() error {
	var missing []string
	required := map[string]string{
		"SUPABASE_URL":              c.Supabase.URL,
		"SUPABASE_ISS":              c.Supabase.Issuer,
		"SUPABASE_JWKS_URL":         c.Supabase.JWKSURL,
		"SUPABASE_AUD":              c.Supabase.Audience,
		"SUPABASE_SERVICE_ROLE_KEY": c.Supabase.ServiceRoleKey,
		"ERP_DB_USER":               c.Ventas.User,
		"ERP_DB_PASSWORD":           c.Ventas.Password,
		"ERP_DB_NAME":               c.Ventas.DBName,
		"ERP_FINAN_DB_NAME":         c.Finan.DBName,
	}
	for name, val := range required {
		if val == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: faltan variables obligatorias: %s", strings.Join(missing, ", "))
	}
	if _, err := time.LoadLocation(c.Jobs.Timezone); err != nil {
		return fmt.Errorf("config: JOBS_TIMEZONE inválida %q: %w", c.Jobs.Timezone, err)
	}
	for _, jc := range []struct {
		name string
		cfg  JobConfig
	}{{"giro", c.Jobs.Giro}, {"reparto", c.Jobs.Reparto}, {"oferta", c.Jobs.Oferta}} {
		if jc.cfg.Hour < 0 || jc.cfg.Hour > 23 || jc.cfg.Minute < 0 || jc.cfg.Minute > 59 {
			return fmt.Errorf("config: hora de disparo inválida para el job %s", jc.name)
		}
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
