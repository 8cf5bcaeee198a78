package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/leakwatch/internal/discovery"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"` // postgres only
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	OpenAI struct {
		APIKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"openai"`

	Auth struct {
		// APIKeys map tenant → API key
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"auth"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"cors"`

	Discovery struct {
		TargetDomain       string   `yaml:"targetDomain"`
		RequestDelaySec    int      `yaml:"requestDelaySec"`
		MaxRetries         int      `yaml:"maxRetries"`
		MinRelevanceScore  float64  `yaml:"minRelevanceScore"`
		LeakKeywords       []string `yaml:"leakKeywords"`
		UserAgents         []string `yaml:"userAgents"`
		PIIFieldPatterns   []string `yaml:"piiFieldPatterns"`
		PIIKeywords        []string `yaml:"piiKeywords"`
		Sources            []string `yaml:"sources"`
		MirrorSources      []string `yaml:"mirrorSources"`
		SocksProxy         string   `yaml:"socksProxy"`
		AuthorCrawlLimit   int      `yaml:"authorCrawlLimit"`
		ArchiveScanLimit   int      `yaml:"archiveScanLimit"`
		KeywordSearchLimit int      `yaml:"keywordSearchLimit"`
	} `yaml:"discovery"`
}

// Load baca file config.yaml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		sslMode,
	)
}

// DiscoveryConfig map section discovery ke config engine. Field kosong
// pakai default engine.
func (c *Config) DiscoveryConfig() discovery.Config {
	d := discovery.Config{
		TargetDomain:       c.Discovery.TargetDomain,
		MaxRetries:         c.Discovery.MaxRetries,
		MinRelevanceScore:  c.Discovery.MinRelevanceScore,
		LeakKeywords:       c.Discovery.LeakKeywords,
		UserAgents:         c.Discovery.UserAgents,
		PIIFieldPatterns:   c.Discovery.PIIFieldPatterns,
		PIIKeywords:        c.Discovery.PIIKeywords,
		Sources:            c.Discovery.Sources,
		MirrorSources:      c.Discovery.MirrorSources,
		SocksProxy:         c.Discovery.SocksProxy,
		AuthorCrawlLimit:   c.Discovery.AuthorCrawlLimit,
		ArchiveScanLimit:   c.Discovery.ArchiveScanLimit,
		KeywordSearchLimit: c.Discovery.KeywordSearchLimit,
	}
	if c.Discovery.RequestDelaySec > 0 {
		d.RequestDelay = time.Duration(c.Discovery.RequestDelaySec) * time.Second
	}
	return d
}
