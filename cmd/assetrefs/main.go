package main

import (
	"os"

	"github.com/morozRed/assetrefs/internal/cli"
	"github.com/sirupsen/logrus"
)

var version = "0.1.0-dev"

func main() {
	if err := cli.NewRootCommand(version).Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
