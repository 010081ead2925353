package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (s *stubSQSClient) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	s.input = in
	if s.err != nil {
		return nil, s.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

type stubSNSClient struct {
	input *sns.PublishInput
	err   error
}

func (s *stubSNSClient) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	s.input = in
	if s.err != nil {
		return nil, s.err
	}
	return &sns.PublishOutput{MessageId: aws.String("m-2")}, nil
}

func TestSQSSenderSend(t *testing.T) {
	client := &stubSQSClient{}
	sender := &awsSQSSender{queueURL: "https://sqs/q", client: client, log: ensureLogger(nil)}

	require.NoError(t, sender.Send(context.Background(), VoteEvent("", "a", "", 2)))
	require.NotNil(t, client.input)
	assert.Equal(t, "https://sqs/q", aws.ToString(client.input.QueueUrl))
	assert.Equal(t, EventVoteApplied, aws.ToString(client.input.MessageAttributes["event_type"].StringValue))

	var evt Event
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(client.input.MessageBody)), &evt))
	require.NotNil(t, evt.Votes)
	assert.Equal(t, 2, *evt.Votes)

	client.err = errors.New("throttled")
	require.Error(t, sender.Send(context.Background(), Event{Type: EventVoteApplied}))
}

func TestSNSSenderSend(t *testing.T) {
	client := &stubSNSClient{}
	sender := &awsSNSSender{topicARN: "arn:aws:sns:eu-west-1:1:t", client: client, log: ensureLogger(nil)}

	require.NoError(t, sender.Send(context.Background(), Event{Type: EventArticlesRefreshed, Source: "hn", Count: 10}))
	assert.Equal(t, "arn:aws:sns:eu-west-1:1:t", aws.ToString(client.input.TopicArn))
	assert.Equal(t, "hn", aws.ToString(client.input.MessageAttributes["source"].StringValue))

	client.err = errors.New("denied")
	require.Error(t, sender.Send(context.Background(), Event{Type: EventArticlesRefreshed}))
}

func TestQueuePublisherWrapsSenderError(t *testing.T) {
	pub := &queuePublisher{id: "q", provider: QueueProviderAWSSQS, sender: &awsSQSSender{client: &stubSQSClient{err: errors.New("boom")}, log: ensureLogger(nil)}}
	err := pub.Publish(context.Background(), Event{Type: EventVoteApplied})
	require.Error(t, err)
	assert.Contains(t, err.Error(), QueueProviderAWSSQS)
	assert.Equal(t, TypeQueue, pub.Type())
}
