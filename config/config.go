package config

import (
	"os"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

// SysConfig system level configuration
type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Secret string `yaml:"secret" json:"secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// CatalogConfig external product feed settings
type CatalogConfig struct {
	FeedURL     string `yaml:"feed_url" json:"feed_url"`
	PageSize    int    `yaml:"page_size" json:"page_size"`
	Timeout     int    `yaml:"timeout" json:"timeout"` // seconds
	RefreshCron string `yaml:"refresh_cron" json:"refresh_cron"`
}

// CartConfig durable cart storage settings
type CartConfig struct {
	Path string `yaml:"path" json:"path"`
	Key  string `yaml:"key" json:"key"`
}

type AppConfig struct {
	System   SysConfig     `yaml:"system" json:"system"`
	Web      WebConfig     `yaml:"web" json:"web"`
	Database DBConfig      `yaml:"database" json:"database"`
	Logger   LogConfig     `yaml:"logger" json:"logger"`
	Catalog  CatalogConfig `yaml:"catalog" json:"catalog"`
	Cart     CartConfig    `yaml:"cart" json:"cart"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "obrasuite",
		Location: "America/Argentina/Buenos_Aires",
		Workdir:  "/var/obrasuite",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1816,
		Secret: "9b6de5cc-obras-1816-suite-e3f0ef9f3922",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "obrasuite",
		User:     "postgres",
		Passwd:   "myroot",
		MaxConn:  100,
		IdleConn: 10,
		Debug:    false,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/obrasuite/obrasuite.log",
	},
	Catalog: CatalogConfig{
		FeedURL:     "http://127.0.0.1:8090/api/catalog",
		PageSize:    500,
		Timeout:     30,
		RefreshCron: "@every 6h",
	},
	Cart: CartConfig{
		Path: "/var/obrasuite/cart.db",
		Key:  "cart",
	},
}

func setEnvValue(name string, val *string) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

func setEnvIntValue(name string, val *int) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	*val = cast.ToInt(evalue)
}

// LoadConfig reads the yaml configuration file and applies OBRAS_* env overrides.
// A missing file yields the defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig
	if cfile != "" {
		if _, err := os.Stat(cfile); err == nil {
			data, err := os.ReadFile(cfile)
			if err == nil {
				_ = yaml.Unmarshal(data, cfg)
			}
		}
	}

	setEnvValue("OBRAS_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("OBRAS_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("OBRAS_WEB_HOST", &cfg.Web.Host)
	setEnvValue("OBRAS_WEB_SECRET", &cfg.Web.Secret)
	setEnvIntValue("OBRAS_WEB_PORT", &cfg.Web.Port)

	setEnvValue("OBRAS_DB_HOST", &cfg.Database.Host)
	setEnvValue("OBRAS_DB_NAME", &cfg.Database.Name)
	setEnvValue("OBRAS_DB_USER", &cfg.Database.User)
	setEnvValue("OBRAS_DB_PWD", &cfg.Database.Passwd)
	setEnvIntValue("OBRAS_DB_PORT", &cfg.Database.Port)
	setEnvBoolValue("OBRAS_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("OBRAS_CATALOG_FEED_URL", &cfg.Catalog.FeedURL)
	setEnvIntValue("OBRAS_CATALOG_PAGE_SIZE", &cfg.Catalog.PageSize)
	setEnvIntValue("OBRAS_CATALOG_TIMEOUT", &cfg.Catalog.Timeout)

	setEnvValue("OBRAS_CART_PATH", &cfg.Cart.Path)

	return cfg
}
