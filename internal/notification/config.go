package notification

// SMTPConfig holds connection parameters for the SMTP provider.
type SMTPConfig struct {
	Host       string `json:"host"`
	Port       int    `json:"port"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	FromAddr   string `json:"from_address"`
	ToAddrs    string `json:"to_addresses"`
	Encryption string `json:"encryption"` // "none", "starttls", "ssl_tls"
}

// NotificationSettings controls whether stock alerts are sent and how.
// The name is intentional: it provides clarity when referenced as notification.NotificationSettings.
//
//nolint:revive
type NotificationSettings struct {
	Enabled  bool       `json:"enabled"`
	Provider SMTPConfig `json:"provider"`
}

// Masked returns a copy of s with the SMTP password hidden.
func (s NotificationSettings) Masked() NotificationSettings {
	if s.Provider.Password != "" {
		s.Provider.Password = MaskedPassword
	}
	return s
}

// MaskedPassword replaces the SMTP password in anything shown to users.
const MaskedPassword = "***"
