// Package factory provides a default implementation of the client.Factory interface,
// creating protocol clients and connector sessions from configuration.
package factory

import (
	"fmt"
	"time"

	"digital.vasic.smbconnector/pkg/client"
	"digital.vasic.smbconnector/pkg/config"
	"digital.vasic.smbconnector/pkg/connector"
	"digital.vasic.smbconnector/pkg/ftp"
	"digital.vasic.smbconnector/pkg/local"
	"digital.vasic.smbconnector/pkg/logging"
	"digital.vasic.smbconnector/pkg/smb"
)

// DefaultFactory implements client.Factory for all supported protocols.
type DefaultFactory struct{}

// NewDefaultFactory creates a new default client factory.
func NewDefaultFactory() *DefaultFactory {
	return &DefaultFactory{}
}

// CreateClient creates a protocol client based on the storage configuration.
// Host, port and share are not part of the client; they are passed per call.
func (f *DefaultFactory) CreateClient(config *client.StorageConfig) (client.Client, error) {
	switch config.Protocol {
	case "smb":
		smbConfig := &smb.Config{
			Username:    GetStringSetting(config.Settings, "username", ""),
			Password:    GetStringSetting(config.Settings, "password", ""),
			Domain:      GetStringSetting(config.Settings, "domain", ""),
			DialTimeout: time.Duration(GetIntSetting(config.Settings, "dial_timeout", 0)) * time.Second,
		}
		return smb.NewSMBClient(smbConfig), nil

	case "ftp":
		ftpConfig := &ftp.Config{
			Username: GetStringSetting(config.Settings, "username", ""),
			Password: GetStringSetting(config.Settings, "password", ""),
			Path:     GetStringSetting(config.Settings, "path", ""),
			Timeout:  time.Duration(GetIntSetting(config.Settings, "timeout", 0)) * time.Second,
		}
		return ftp.NewFTPClient(ftpConfig), nil

	case "local":
		localConfig := &local.Config{
			BasePath: GetStringSetting(config.Settings, "base_path", ""),
		}
		return local.NewLocalClient(localConfig), nil

	default:
		return nil, fmt.Errorf("unsupported protocol: %s", config.Protocol)
	}
}

// SupportedProtocols returns the list of supported protocols.
func (f *DefaultFactory) SupportedProtocols() []string {
	return []string{"smb", "ftp", "local"}
}

// ClientFor creates the protocol client described by connector settings.
func ClientFor(settings config.Settings) (client.Client, error) {
	return NewDefaultFactory().CreateClient(&client.StorageConfig{
		Name:     settings.Share,
		Protocol: settings.Protocol,
		Enabled:  true,
		Settings: map[string]interface{}{
			"username":  settings.Username,
			"password":  settings.Password,
			"domain":    settings.Domain,
			"base_path": settings.BasePath,
		},
	})
}

// Open validates settings and returns a session that is ready to be entered,
// logging through a logger built from the settings' log level and format.
func Open(settings config.Settings, opts ...connector.Option) (*connector.Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Config{Level: settings.LogLevel, Format: settings.LogFormat})
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	c, err := ClientFor(settings)
	if err != nil {
		return nil, err
	}

	opts = append([]connector.Option{connector.WithLogger(logger)}, opts...)
	return connector.New(settings, c, opts...), nil
}

// GetStringSetting extracts a string setting from a settings map.
func GetStringSetting(settings map[string]interface{}, key, defaultValue string) string {
	if val, ok := settings[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return defaultValue
}

// GetIntSetting extracts an int setting from a settings map.
func GetIntSetting(settings map[string]interface{}, key string, defaultValue int) int {
	if val, ok := settings[key]; ok {
		if num, ok := val.(int); ok {
			return num
		}
		if floatNum, ok := val.(float64); ok {
			return int(floatNum)
		}
	}
	return defaultValue
}
