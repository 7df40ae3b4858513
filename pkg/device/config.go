package device

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmandrioli/piwifi-web/pkg/message"
	"github.com/dmandrioli/piwifi-web/pkg/transport"
)

// Config configures a simulated device
type Config struct {
	// Identity
	ID string

	// SignalPeriod is the interval between signal readings while
	// monitoring
	SignalPeriod time.Duration

	// MaxPayload is the fragment payload budget for outbound
	// notifications
	MaxPayload int

	// Networks answers scan commands and seeds the channel survey
	Networks []message.Network
}

// DefaultConfig returns a device configuration with a small canned
// network table
func DefaultConfig() Config {
	return Config{
		ID:           "device",
		SignalPeriod: 1 * time.Second,
		MaxPayload:   transport.DefaultMaxPayload,
		Networks: []message.Network{
			{SSID: "HomeNet", Channel: 6, Security: "wpa2", RSSI: -48},
			{SSID: "CoffeeShop", Channel: 11, Security: "open", RSSI: -71},
			{SSID: "Lab-5G", Channel: 36, Security: "wpa3", RSSI: -55},
			{SSID: "", Channel: 1, Security: "wpa2", RSSI: -80},
		},
	}
}

// networksFile is the YAML shape of a network table file
type networksFile struct {
	Networks []networkEntry `yaml:"networks"`
}

type networkEntry struct {
	SSID     string `yaml:"ssid"`
	Channel  int    `yaml:"channel"`
	Security string `yaml:"security"`
	RSSI     int    `yaml:"rssi"`
}

// LoadNetworksFile reads a network table from a YAML file
func LoadNetworksFile(path string) ([]message.Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read networks file: %w", err)
	}

	var file networksFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse networks file %s: %w", path, err)
	}

	networks := make([]message.Network, 0, len(file.Networks))
	for _, e := range file.Networks {
		networks = append(networks, message.Network{
			SSID:     e.SSID,
			Channel:  e.Channel,
			Security: e.Security,
			RSSI:     e.RSSI,
		})
	}
	return networks, nil
}
