package config

import "fmt"

type ServerConfig struct {
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig selects the gorm dialect. Driver "sqlite" treats Database
// as a file path and ignores the network settings.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// EmailConfig holds SMTP settings and the addressing rules applied to
// every outgoing notification.
type EmailConfig struct {
	SMTPHost      string   `mapstructure:"smtp_host"`
	SMTPPort      int      `mapstructure:"smtp_port"`
	SMTPUser      string   `mapstructure:"smtp_user"`
	SMTPPassword  string   `mapstructure:"smtp_password"`
	FromAddress   string   `mapstructure:"from_address"`
	ServerEmail   string   `mapstructure:"server_email"`
	SubjectPrefix string   `mapstructure:"subject_prefix"`
	Admins        []string `mapstructure:"admins"`
}

// SiteConfig describes the public site used to build absolute links in mails.
type SiteConfig struct {
	Domain string `mapstructure:"domain"`
	Scheme string `mapstructure:"scheme"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type NotificationConfig struct {
	DefaultLanguage            string   `mapstructure:"default_language"`
	Languages                  []string `mapstructure:"languages"`
	TemplatesPath              string   `mapstructure:"templates_path"`
	NotifyAdminsOnMergeFailure bool     `mapstructure:"notify_admins_on_merge_failure"`
}

type PermissionConfig struct {
	DefaultGroup string `mapstructure:"default_group"`
}
