// Package sdk loads the AWS configuration shared by the service clients.
package sdk

import (
	"context"
	"fmt"
	"net"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/smithy-go/logging"
	"github.com/kent-id/tsodbc"
)

// LoadAWSConfig builds the aws.Config of a connection: region, profile,
// static credentials, retries, timeouts and SDK logging through logger.
func LoadAWSConfig(ctx context.Context, cfg tsodbc.Config, logger *tsodbc.Logger) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
		config.WithHTTPClient(httpClient(cfg)),
		config.WithLogger(sdkLogger(logger)),
	}
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	}
	if cfg.MaxRetryCount > 0 {
		// the first attempt counts as well
		opts = append(opts, config.WithRetryMaxAttempts(cfg.MaxRetryCount+1))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("cannot load aws config: %w", err)
	}
	logger.LogInfof("loaded aws config, region: %s, profile: %q, static credentials: %t", cfg.Region, cfg.Profile, cfg.AccessKeyID != "")
	return awsCfg, nil
}

func httpClient(cfg tsodbc.Config) *awshttp.BuildableClient {
	client := awshttp.NewBuildableClient()
	if cfg.RequestTimeout > 0 {
		client = client.WithTimeout(cfg.RequestTimeout)
	}
	if cfg.ConnectionTimeout > 0 {
		client = client.WithDialerOptions(func(d *net.Dialer) {
			d.Timeout = cfg.ConnectionTimeout
		})
	}
	return client
}

// sdkLogger forwards SDK log output to the connection logger.
func sdkLogger(logger *tsodbc.Logger) logging.Logger {
	return logging.LoggerFunc(func(classification logging.Classification, format string, v ...interface{}) {
		if classification == logging.Warn {
			logger.LogWarnf(format, v...)
			return
		}
		logger.LogDebugf(format, v...)
	})
}
