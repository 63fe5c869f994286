package model

import "time"

// DevCredentials identify the application registered with the marketplace.
type DevCredentials struct {
	AppName  string `json:"app_name" mapstructure:"app_name"`
	DevName  string `json:"dev_name" mapstructure:"dev_name"`
	CertName string `json:"-" mapstructure:"cert_name"`
	RuName   string `json:"ru_name" mapstructure:"ru_name"`
}

// UserCredentials identify the seller account a service acts for.
type UserCredentials struct {
	AccountName string `json:"account_name" mapstructure:"account_name"`
	Token       string `json:"-" mapstructure:"token"`
}

// UserToken is an issued seller token.
type UserToken struct {
	Token   string    `json:"-"`
	Expires time.Time `json:"expires"`
}
