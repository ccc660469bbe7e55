package config

import (
	"log"
	"os"
	"time"

	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/utils"
	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string   `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTP     `yaml:"http"`
	Postgres PG       `yaml:"postgres"`
	Redis    Redis    `yaml:"redis"`
	Kafka    Kafka    `yaml:"kafka"`
	SMTP     SMTP     `yaml:"smtp"`
	Shop     Shop     `yaml:"shop"`
	Limiter  Limiter  `yaml:"limiter"`
	Checkout Checkout `yaml:"checkout"`
	JWT      JWT      `yaml:"jwt"`
}

type JWT struct {
	Secret   string        `yaml:"secret" env:"JWT_SECRET"`
	TokenTTL time.Duration `yaml:"token_ttl" env-default:"24h"`
}

type HTTP struct {
	Port    string        `yaml:"port" env:"HTTP_PORT" env-default:":3000"`
	Timeout time.Duration `yaml:"timeout" env-default:"4s"`
}

type PG struct {
	URL      string `yaml:"url" env:"DB_URL"`
	MaxConns int32  `yaml:"max_conns" env-default:"10"`
	MinConns int32  `yaml:"min_conns" env-default:"2"`
}

type Redis struct {
	Addr string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
}

type Kafka struct {
	Brokers       []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	OrderTopic    string   `yaml:"order_topic" env-default:"order_events"`
	ConsumerGroup string   `yaml:"consumer_group" env-default:"notification-group"`
}

type SMTP struct {
	Host string `yaml:"host" env:"SMTP_HOST"`
	Port string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	From string `yaml:"from" env:"SMTP_FROM" env-default:"no-reply@tiendavinilos.cl"`
}

// Shop carries the storefront business constants. Amounts are CLP, no
// decimal places.
type Shop struct {
	FreeShippingFrom int64   `yaml:"free_shipping_from" env-default:"50000"`
	ShippingFee      int64   `yaml:"shipping_fee" env-default:"5000"`
	TaxRate          float64 `yaml:"tax_rate" env-default:"0.19"`
}

type Limiter struct {
	Max        int           `yaml:"max" env-default:"20"`
	Expiration time.Duration `yaml:"expiration" env-default:"5s"`
}

type Checkout struct {
	SessionTTL time.Duration `yaml:"session_ttl" env-default:"1h"`
	CartTTL    time.Duration `yaml:"cart_ttl" env-default:"720h"`
}

func MustLoad() *Config {
	configPath := utils.ParseWithFallback("CONFIG_PATH", "./config/local.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exists: %v\n", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("error reading config: %v", err)
	}

	return &cfg
}
