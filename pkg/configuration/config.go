package configuration

import "github.com/adampresley/configinator"

type Config struct {
	AwsEndpointUrl           string `flag:"awsep" env:"AWS_ENDPOINT_URL" default:"http://localhost:4566" description:"AWS endpoint URL"`
	AwsRegion                string `flag:"awsregion" env:"AWS_REGION" default:"us-east-1" description:"AWS region"`
	AwsAccessKeyId           string `flag:"awsaccesskeyid" env:"AWS_ACCESS_KEY_ID" default:"" description:"AWS access key ID"`
	AwsSecretAccessKey       string `flag:"awssecretaccesskey" env:"AWS_SECRET_ACCESS_KEY" default:"" description:"AWS secret access key"`
	AwsBucket                string `flag:"awsbucket" env:"AWS_BUCKET" default:"hardingphotos.com" description:"S3 bucket holding album images"`
	Environment              string `flag:"environment" env:"ENVIRONMENT" default:"development" description:"Runtime environment. 'production' switches to JSON logging"`
	Host                     string `flag:"host" env:"HOST" default:"localhost:8080" description:"The address and port to bind the HTTP server to"`
	LogLevel                 string `flag:"loglevel" env:"LOG_LEVEL" default:"debug" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxThumbnailWorkers      int    `flag:"mtw" env:"MAX_THUMBNAIL_WORKERS" default:"10" description:"Maximum number of concurrent thumbnail workers"`
	PresignExpirationMinutes int    `flag:"pem" env:"PRESIGN_EXPIRATION_MINUTES" default:"30" description:"Lifetime of presigned image URLs in minutes"`
	RedisUrl                 string `flag:"redisurl" env:"REDIS_URL" default:"redis://localhost:6379/0" description:"Redis connection URL for the album metadata store"`
}

func LoadConfig() Config {
	config := Config{}
	configinator.Behold(&config)
	return config
}
