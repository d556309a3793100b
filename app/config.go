package app

// DefaultMetricsAddress is where the Prometheus gauges are served when
// farm.metrics-address is unset
const DefaultMetricsAddress = "127.0.0.1:26661"

// FarmConfig is the [farm] section of app.toml
type FarmConfig struct {
	MetricsEnabled bool   `mapstructure:"metrics-enabled"`
	MetricsAddress string `mapstructure:"metrics-address"`
}

// DefaultFarmConfig keeps the metrics endpoint off
func DefaultFarmConfig() FarmConfig {
	return FarmConfig{
		MetricsEnabled: false,
		MetricsAddress: DefaultMetricsAddress,
	}
}

// FarmConfigTemplate is appended to the default app.toml template
const FarmConfigTemplate = `
###############################################################################
###                              Farm Configuration                         ###
###############################################################################

[farm]

# Serve the farm and vault Prometheus gauges.
metrics-enabled = {{ .Farm.MetricsEnabled }}

# Listen address of the metrics endpoint.
metrics-address = "{{ .Farm.MetricsAddress }}"
`
