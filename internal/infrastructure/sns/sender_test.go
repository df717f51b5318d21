package sns

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ro-service/api/internal/channel"
)

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*sns.PublishOutput)
	return out, args.Error(1)
}

func TestSendSMS_PrependsCountryCode(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		return aws.ToString(in.PhoneNumber) == "+919876543210" && aws.ToString(in.Message) == "hi"
	})).Return(&sns.PublishOutput{MessageId: aws.String("m-1")}, nil)

	s := &Sender{client: pub, countryCode: "+91"}
	id, err := s.SendSMS(context.Background(), "9876543210", "hi")
	require.NoError(t, err)
	assert.Equal(t, "m-1", id)
	pub.AssertExpectations(t)
}

func TestSendSMS_ClientFaultIsRejection(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).
		Return(nil, &smithy.GenericAPIError{Code: "InvalidParameter", Message: "bad number", Fault: smithy.FaultClient})

	s := &Sender{client: pub, countryCode: "+91"}
	_, err := s.SendSMS(context.Background(), "9876543210", "hi")
	assert.True(t, errors.Is(err, channel.ErrRejected))
}

func TestSendSMS_OtherErrorsPassThrough(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: timeout"))

	s := &Sender{client: pub, countryCode: "+91"}
	_, err := s.SendSMS(context.Background(), "9876543210", "hi")
	require.Error(t, err)
	assert.False(t, errors.Is(err, channel.ErrRejected))
}
