package internal_test

import (
	"time"

	"github.com/frahmantamala/access-request/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func validConfig() *internal.Config {
	return &internal.Config{
		Server: internal.ServerConfig{
			Port:              3001,
			AllowedOrigins:    internal.DefaultAllowedOrigins,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
		},
		Database: internal.DatabaseConfig{
			Driver:       internal.DriverSQLite,
			Source:       "access_request.db",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
		Security: internal.SecurityConfig{
			JWTSecret:           "0123456789abcdef",
			AccessTokenDuration: internal.DefaultTokenDuration,
			BCryptCost:          internal.DefaultBCryptCost,
		},
		Observability: internal.ObservabilityConfig{
			Logging: internal.LoggingConfig{Level: "info", Format: "json"},
		},
	}
}

var _ = Describe("Config", func() {
	It("accepts a complete configuration", func() {
		Expect(validConfig().Validate()).To(Succeed())
	})

	DescribeTable("rejects bad values",
		func(mutate func(*internal.Config), fragment string) {
			cfg := validConfig()
			mutate(cfg)
			err := cfg.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(fragment))
		},
		Entry("port", func(c *internal.Config) { c.Server.Port = 70000 }, "invalid port"),
		Entry("origin", func(c *internal.Config) { c.Server.AllowedOrigins = "localhost:3000" }, "invalid allowed origin"),
		Entry("timeouts", func(c *internal.Config) { c.Server.ReadTimeout = time.Second }, "read_timeout"),
		Entry("body limit", func(c *internal.Config) { c.Server.MaxBodyBytes = -1 }, "max_body_bytes"),
		Entry("driver", func(c *internal.Config) { c.Database.Driver = "oracle" }, "unsupported driver"),
		Entry("source", func(c *internal.Config) { c.Database.Source = "" }, "source is required"),
		Entry("pool", func(c *internal.Config) { c.Database.MaxIdleConns = 20 }, "max_idle_conns"),
		Entry("secret", func(c *internal.Config) { c.Security.JWTSecret = "short" }, "jwt_secret"),
		Entry("token ttl", func(c *internal.Config) { c.Security.AccessTokenDuration = 0 }, "access_token_duration"),
		Entry("bcrypt cost", func(c *internal.Config) { c.Security.BCryptCost = 4 }, "bcrypt_cost"),
		Entry("log level", func(c *internal.Config) { c.Observability.Logging.Level = "trace" }, "log level"),
	)

	It("splits and trims the origin allow-list", func() {
		cfg := internal.ServerConfig{AllowedOrigins: " http://a.test , ,http://b.test"}
		Expect(cfg.Origins()).To(Equal([]string{"http://a.test", "http://b.test"}))
	})

	It("falls back to the default body limit", func() {
		Expect((&internal.ServerConfig{}).BodyLimit()).To(BeEquivalentTo(internal.DefaultMaxBodyBytes))
		Expect((&internal.ServerConfig{MaxBodyBytes: 512}).BodyLimit()).To(BeEquivalentTo(512))
	})

	It("never prints the signing secret", func() {
		cfg := validConfig()
		Expect(cfg.String()).NotTo(ContainSubstring(cfg.Security.JWTSecret))
	})

	It("reads plain environment variables", func() {
		GinkgoT().Setenv("HTTP_PORT", "8080")
		GinkgoT().Setenv("DB_DRIVER", "mysql")
		GinkgoT().Setenv("ACCESS_TOKEN_DURATION", "2h")
		GinkgoT().Setenv("BCRYPT_COST", "not-a-number")

		cfg := internal.LoadConfigFromEnv()
		Expect(cfg.Server.Port).To(Equal(8080))
		Expect(cfg.Database.Driver).To(Equal(internal.DriverMySQL))
		Expect(cfg.Security.AccessTokenDuration).To(Equal(2 * time.Hour))
		Expect(cfg.Security.BCryptCost).To(Equal(internal.DefaultBCryptCost))
	})
})
