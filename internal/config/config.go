package config

import "time"

//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Fleet Browser Extension Server
type Configuration struct {
	Fleet      Fleet     `debugmap:"visible"`
	Browser    Browser   `debugmap:"visible"`
	Extension  Extension `debugmap:"visible"`
	Server     Server    `debugmap:"visible"`
	DataFolder string    `debugmap:"visible"`

	// Log
	LogFormat string `debugmap:"visible"`
	LogLevel  string `debugmap:"visible"`
}

type Fleet struct {
	ExtensionDir              string        `debugmap:"visible"`
	ProfileRoot               string        `debugmap:"visible"`
	AccountsFile              string        `debugmap:"visible"`
	LoginCheckInterval        time.Duration `debugmap:"visible" default:"6h"`
	UpdateCheckMultiplier     int           `debugmap:"visible" default:"4"`
	ConnectivityCheckInterval time.Duration `debugmap:"visible" default:"10m"`
	FastPassJitter            time.Duration `debugmap:"visible"`
	NavigationTimeout         time.Duration `debugmap:"visible" default:"90s"`
	MaxAttempts               int           `debugmap:"visible" default:"5"`
	RetryDelay                time.Duration `debugmap:"visible" default:"10s"`
}

type Browser struct {
	Bin       string `debugmap:"visible" default:"/usr/bin/google-chrome-stable"`
	Headless  bool   `debugmap:"visible"`
	NoSandbox bool   `debugmap:"visible" default:"true"`
}

type Extension struct {
	ID          string    `debugmap:"visible" default:"ilehaonighjijnmpnagapkhpcdbhclfg"`
	Name        string    `debugmap:"visible" default:"grass-extension"`
	PagePath    string    `debugmap:"visible" default:"index.html"`
	LoginURL    string    `debugmap:"visible" default:"https://app.getgrass.io/"`
	AuthCookie  string    `debugmap:"visible" default:"token"`
	StoreURL    string    `debugmap:"visible" default:"https://chromewebstore.google.com/detail/grass-extension/ilehaonighjijnmpnagapkhpcdbhclfg?hl=en"`
	DownloadURL string    `debugmap:"visible" default:"https://clients2.google.com/service/update2/crx"`
	Selectors   Selectors `debugmap:"visible"`
}

// Selectors locate the login form, the store version field and the agent status widgets.
type Selectors struct {
	Username       string `debugmap:"visible" default:"#field-\\:r0\\:"`
	Password       string `debugmap:"visible" default:"#field-\\:r1\\:"`
	Submit         string `debugmap:"visible" default:"body > div.css-t1k2od > div > div.css-0 > div > div.css-10heyz4 > div > form > button"`
	StoreVersion   string `debugmap:"visible" default:"#yDmH0d > c-wiz > div > div > main > div > section:nth-child(5) > div:nth-child(2) > div > ul > li.Qt4bne.HV0oG > div.pDlpAd"`
	AgentLoading   string `debugmap:"visible" default:".chakra-spinner"`
	AgentStatus    string `debugmap:"visible" default:"[data-testid=connection-status]"`
	AgentReconnect string `debugmap:"visible" default:"[data-testid=reconnect-button]"`
}

type Server struct {
	Enabled  bool   `debugmap:"visible" default:"true"`
	HTTPPort int    `debugmap:"visible" default:"8080"`
	Mode     string `debugmap:"visible" default:"prod"`
}

// AgentPageURL is the companion page of the agent extension.
func (e Extension) AgentPageURL() string {
	return "chrome-extension://" + e.ID + "/" + e.PagePath
}
