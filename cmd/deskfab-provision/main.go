package main

import (
	"context"
	"flag"
	"log"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cfgp "github.com/opsberry/deskfab/pkg/configs/provision"
	dpaws "github.com/opsberry/deskfab/pkg/platform/aws"
	"github.com/opsberry/deskfab/pkg/provision"
)

func main() {
	configPath := flag.String("config-path", "", "provision config path")
	outputsPath := flag.String(
		"outputs", "./deskfab-outputs.yaml",
		"where to record the provisioned resource ids",
	)
	flag.Parse()

	logger := log.New(os.Stderr, "deskfab-provision: ", log.LstdFlags)

	conf, err := cfgp.LoadProvisionConfig(*configPath)
	if err != nil {
		logger.Fatalf("can not read configration: %s", err)
	}

	ctx := context.Background()
	awsConf, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(conf.Region))
	if err != nil {
		logger.Fatalf("can not load credentials: %s", err)
	}

	deps := provision.Deps{
		Policy:      dpaws.NewPolicyService(awsConf),
		Collections: dpaws.NewCollectionService(awsConf),
		Indexes:     dpaws.NewIndexService(awsConf),
		Agents:      dpaws.NewAgentPlatform(awsConf),
	}

	outputs, err := provision.Run(ctx, logger, deps, conf)
	if err != nil {
		logger.Fatalf("provisioning failed: %s", err)
	}

	if err := outputs.Save(*outputsPath); err != nil {
		logger.Fatalf("can not save outputs to %s: %s", *outputsPath, err)
	}
	outputs.Print(os.Stdout)
}
