package oauth2backend

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/go-playground/validator/v10"
)

type StackProps struct {
	awscdk.StackProps
	// CodeDir is a path to the directory with built handler modules (index.js, auth.js, callback.js)
	CodeDir string
	// S3BucketName is a name prefix of the regional S3 bucket with handler bundles, used when CodeDir is empty
	S3BucketName string `validate:"required_without=CodeDir"`
	// S3KeyPrefix is the file name prefix of handler bundles in S3
	S3KeyPrefix string
	// Version is a version of handler bundles in S3
	Version string `validate:"omitempty,semver"`
	// Runtime is the lambda runtime name shared by all functions
	Runtime string `validate:"omitempty,oneof=nodejs18.x nodejs20.x nodejs22.x"`
	// Handler is the exported handler symbol of every entry module
	Handler string `validate:"omitempty,alphanum"`
	// DefaultEntry is the module of the default path function
	DefaultEntry string
	// AuthEntry is the module of the auth function
	AuthEntry string
	// CallbackEntry is the module of the callback function
	CallbackEntry string
	// ParameterPrefix is the parameter store path holding docs VPC settings
	ParameterPrefix string `validate:"omitempty,startswith=/"`
	// GitHubClientID is the GitHub OAuth app client id, empty means set out of band
	GitHubClientID string
	// GitHubClientSecret is the GitHub OAuth app client secret, empty means set out of band
	GitHubClientSecret string
	// Lookup resolves parameters, VPC and security group, ContextLookup when nil
	Lookup Lookup `validate:"-"`
}

var DefaultStackProps = StackProps{
	Runtime:         "nodejs18.x",
	Handler:         "handler",
	DefaultEntry:    "index",
	AuthEntry:       "auth",
	CallbackEntry:   "callback",
	ParameterPrefix: "/tilled-docs",
	S3KeyPrefix:     "decapcms-oauth2-",
}

func setDefaultStackProps(props *StackProps) {
	if props.Runtime == "" {
		props.Runtime = DefaultStackProps.Runtime
	}
	if props.Handler == "" {
		props.Handler = DefaultStackProps.Handler
	}
	if props.DefaultEntry == "" {
		props.DefaultEntry = DefaultStackProps.DefaultEntry
	}
	if props.AuthEntry == "" {
		props.AuthEntry = DefaultStackProps.AuthEntry
	}
	if props.CallbackEntry == "" {
		props.CallbackEntry = DefaultStackProps.CallbackEntry
	}
	if props.ParameterPrefix == "" {
		props.ParameterPrefix = DefaultStackProps.ParameterPrefix
	}
	if props.S3KeyPrefix == "" {
		props.S3KeyPrefix = DefaultStackProps.S3KeyPrefix
	}
	if props.Lookup == nil {
		props.Lookup = ContextLookup{}
	}
}

func validateStackProps(props StackProps) error {
	validate := validator.New()
	return validate.Struct(props)
}
