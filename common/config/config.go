package config

import "fmt"

// DatabaseConfig holds the Postgres connection settings.
type DatabaseConfig struct {
	Host     string `env:"DB_HOST,default=localhost"`
	Port     int    `env:"DB_PORT,default=5432"`
	User     string `env:"DB_USER,default=postgres"`
	Password string `env:"DB_PASSWORD,default=postgres"`
	Database string `env:"DB_NAME,default=tap_talk"`
	SSLMode  string `env:"DB_SSLMODE,default=disable"`
	MaxConns int    `env:"DB_MAX_CONNS,default=20"`
	MaxIdle  int    `env:"DB_MAX_IDLE,default=5"`
}

// RedisConfig holds the redis connection settings.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,default=0"`
}

// MQTTConfig holds the MQTT broker settings.
type MQTTConfig struct {
	Broker   string `env:"MQTT_BROKER,default=tcp://localhost:1883"`
	ClientID string `env:"MQTT_CLIENT_ID,default=tap-talk-api"`
	Username string `env:"MQTT_USERNAME"`
	Password string `env:"MQTT_PASSWORD"`
	QoS      byte   `env:"MQTT_QOS,default=1"`
}

// GetDSN builds a lib/pq connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}
