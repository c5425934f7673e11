// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sqsnotify implements the notify.Sender port by enqueuing the
// notifications into an AWS SQS queue. A separate mailer worker is
// expected to consume that queue and deliver the emails, so a nil
// error from Send only means that SQS has accepted the message.
package sqsnotify

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/goccy/go-json"

	"github.com/momeni/campus-parking/pkg/core/notify"
)

// Kind is stored as a message attribute so consumers may route the
// parking notifications without parsing their bodies.
const Kind = "parking.email"

// ErrNoQueue is returned when no queue URL is configured.
var ErrNoQueue = errors.New("sqs queue url is not configured")

// API is the subset of *sqs.Client which is used by Sender.
type API interface {
	SendMessage(
		ctx context.Context,
		params *sqs.SendMessageInput,
		optFns ...func(*sqs.Options),
	) (*sqs.SendMessageOutput, error)
}

// Sender enqueues JSON encoded notify.Message values.
type Sender struct {
	client   API
	queueURL string
}

// New wraps an existing SQS client.
func New(client API, queueURL string) (*Sender, error) {
	if queueURL == "" {
		return nil, ErrNoQueue
	}
	return &Sender{client: client, queueURL: queueURL}, nil
}

// Dial loads the default AWS configuration (environment, shared
// config files, or instance roles) for the given region and creates
// an SQS client for it. A non-empty endpoint overrides the service
// URL, e.g., for a local SQS emulator.
func Dial(ctx context.Context, region, endpoint, queueURL string) (
	*Sender, error,
) {
	cfg, err := awsconfig.LoadDefaultConfig(
		ctx, awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	client := sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return New(client, queueURL)
}

// Send implements notify.Sender.
func (s *Sender) Send(ctx context.Context, msg notify.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}
	_, err = s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"kind": {
				DataType:    aws.String("String"),
				StringValue: aws.String(Kind),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sending SQS message to %q: %w", msg.To, err)
	}
	return nil
}
