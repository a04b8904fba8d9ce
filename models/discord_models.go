package models

// DiscordConfig represents Discord front end configuration
type DiscordConfig struct {
	Token         string `json:"token"`
	CommandPrefix string `json:"command_prefix"`
	APIBaseURL    string `json:"api_base_url"`
}

// DiscordStatus summarizes the Discord front end for logs and diagnostics
type DiscordStatus struct {
	Enabled       bool   `json:"enabled"`
	CommandPrefix string `json:"command_prefix"`
	Uptime        string `json:"uptime"`
	Sessions      int    `json:"sessions"`
}
