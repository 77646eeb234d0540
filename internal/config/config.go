package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	Database Database `envPrefix:"DB_"`
	Auth     Auth     `envPrefix:"AUTH_"`
	Invoice  Invoice  `envPrefix:"INVOICE_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

type Database struct {
	// Driver is sqlite (embedded file, the default) or mysql.
	Driver string `env:"DRIVER" envDefault:"sqlite"`
	DSN    string `env:"DSN" envDefault:"storefront.db"`
}

type Auth struct {
	// JWTSecret verifies bearer tokens minted by the auth provider.
	// Empty means every request shops as a guest.
	JWTSecret string `env:"JWT_SECRET"`
}

type Invoice struct {
	Title          string `env:"TITLE" envDefault:"Ballerz Invoice"`
	Footer         string `env:"FOOTER" envDefault:"Thank you for shopping with Ballerz."`
	CurrencyPrefix string `env:"CURRENCY_PREFIX" envDefault:"Rs."`
}
