package mainconfig

import (
	"context"
	"testing"

	appconfig "github.com/wolfman30/scheduling-assistant/internal/config"
)

func TestNeedsAWS(t *testing.T) {
	cases := []struct {
		cfg  appconfig.Config
		want bool
	}{
		{appconfig.Config{EmailProvider: "stub", AdminLogSink: "log"}, false},
		{appconfig.Config{EmailProvider: "ses", AdminLogSink: "log"}, true},
		{appconfig.Config{EmailProvider: "sendgrid", AdminLogSink: "s3"}, true},
	}
	for _, tc := range cases {
		if got := NeedsAWS(&tc.cfg); got != tc.want {
			t.Fatalf("NeedsAWS(%+v) = %v, want %v", tc.cfg, got, tc.want)
		}
	}
}

func TestOptionalAWSConfigSkipsWhenUnused(t *testing.T) {
	awsCfg, err := OptionalAWSConfig(context.Background(), &appconfig.Config{EmailProvider: "stub"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if awsCfg != nil {
		t.Fatalf("expected no aws config")
	}
}

func TestLoadAWSConfigStaticCredentials(t *testing.T) {
	cfg := &appconfig.Config{
		AWSRegion:           "us-west-2",
		AWSAccessKeyID:      "test",
		AWSSecretAccessKey:  "secret",
		AWSEndpointOverride: "http://localhost:4566",
	}
	awsCfg, err := LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if awsCfg.Region != "us-west-2" {
		t.Fatalf("expected region us-west-2, got %s", awsCfg.Region)
	}
	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("retrieve credentials: %v", err)
	}
	if creds.AccessKeyID != "test" {
		t.Fatalf("expected static credentials, got %s", creds.AccessKeyID)
	}
	ep, err := awsCfg.EndpointResolverWithOptions.ResolveEndpoint("S3", "us-west-2")
	if err != nil || ep.URL != "http://localhost:4566" {
		t.Fatalf("expected s3 endpoint override, got %+v err=%v", ep, err)
	}
}
