//go:build lambda

package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	a, err := newApp(os.Getenv("GOTCHI_CONFIG"), false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()
	lambda.Start(a.svc.Handle)
}
