// contact-send envia uma submissão pelo mesmo pipeline do formulário:
// validação local, checagem de spam estrita e um único POST.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contact-gateway/client"
	"contact-gateway/contact/domain"

	"github.com/sirupsen/logrus"
)

var (
	endpoint  = flag.String("endpoint", "http://localhost:8080/api/contact", "Contact endpoint URL")
	firstName = flag.String("first-name", "", "First name")
	lastName  = flag.String("last-name", "", "Last name")
	email     = flag.String("email", "", "Reply-to email address")
	phone     = flag.String("phone", "", "Phone number (optional)")
	message   = flag.String("message", "", "Message body")
	timeout   = flag.Duration("timeout", 15*time.Second, "Request timeout")
	verbose   = flag.Bool("verbose", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	c := client.New(*endpoint, client.WithLogger(logger))
	res, err := c.Submit(ctx, domain.SubmissionInput{
		FirstName: *firstName,
		LastName:  *lastName,
		Email:     *email,
		Phone:     *phone,
		Message:   *message,
	})
	if err != nil {
		logger.WithError(err).Fatal("submission failed")
	}

	fmt.Println(res.Message)
	for _, e := range res.Errors {
		fmt.Printf("  - %s\n", e)
	}
	if res.RetryAfter > 0 {
		fmt.Printf("retry after %s\n", res.RetryAfter)
	}
	if !res.Success {
		os.Exit(1)
	}
}
