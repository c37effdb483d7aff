package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/harperreed/adda/apitest"
	"github.com/harperreed/adda/forms"
	"github.com/harperreed/adda/models"
	"github.com/harperreed/adda/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendOTPRejectsInvalidPhoneWithoutRequest(t *testing.T) {
	f := newFixture(t)

	for _, phone := range []string{"12345", "", "5876543210", "98765432100"} {
		_, err := f.client.Auth.SendOTP(context.Background(), phone)
		require.Error(t, err, phone)
		assert.True(t, IsKind(err, KindValidation))
		assert.Equal(t, forms.MsgPhone, err.Error())
	}
	assert.Empty(t, f.srv.Requests())
}

func TestSendOTP(t *testing.T) {
	f := newFixture(t)

	out, err := f.client.Auth.SendOTP(context.Background(), "+91 98765-43210")
	require.NoError(t, err)
	assert.Equal(t, "OTP sent successfully", out.Message)
	assert.False(t, out.IsNewUser)

	req, _ := f.srv.LastRequest()
	assert.Equal(t, "/api/auth/login", req.Path)
	assert.JSONEq(t, `{"phone":"9876543210"}`, string(req.Body))

	_, err = f.client.Auth.ResendOTP(context.Background(), "9123456789")
	require.NoError(t, err)
	require.Len(t, f.srv.RequestsTo("/api/auth/resend-otp"), 1)
}

func TestVerifyOTPPersistsSessionBeforeReturn(t *testing.T) {
	f := newFixture(t)
	events := f.sess.Subscribe()

	sess, user, err := f.client.Auth.VerifyOTP(context.Background(), apitest.PhoneAsha, apitest.DefaultOTP)
	require.NoError(t, err)
	assert.Equal(t, apitest.BrokerAsha, user.ID)

	ctx := context.Background()
	token, _ := f.sess.GetToken(ctx)
	phone, _ := f.store.Get(ctx, session.KeyPhone)
	broker, _ := f.sess.GetBrokerID(ctx)
	assert.Equal(t, sess.Token, token)
	assert.NotEmpty(t, token)
	assert.Equal(t, apitest.PhoneAsha, phone)
	assert.Equal(t, apitest.BrokerAsha, broker)

	got := drain(events)
	require.Len(t, got, 1)
	assert.Equal(t, session.LoggedIn, got[0].Kind)
	assert.Equal(t, *sess, got[0].Session)

	// The next call carries the new token.
	_, err = f.client.Brokers.Me(ctx)
	require.NoError(t, err)
	last, _ := f.srv.LastRequest()
	assert.Equal(t, "Bearer "+token, last.Header.Get("Authorization"))
}

func TestVerifyOTPWrongCode(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.client.Auth.VerifyOTP(context.Background(), apitest.PhoneAsha, "000000")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindBadRequest))
	assert.Equal(t, "Invalid OTP", err.Error())

	token, _ := f.sess.GetToken(context.Background())
	assert.Empty(t, token)
}

func TestVerifyOTPValidatesCode(t *testing.T) {
	f := newFixture(t)

	for _, otp := range []string{"", "12345", "12a456", "1234567"} {
		_, _, err := f.client.Auth.VerifyOTP(context.Background(), apitest.PhoneAsha, otp)
		require.Error(t, err, otp)
		assert.Equal(t, forms.MsgOTP, err.Error())
	}
	assert.Empty(t, f.srv.Requests())
}

func TestVerifyOTPWithoutToken(t *testing.T) {
	f := newFixture(t)
	f.srv.Fail(http.MethodPost, "/api/auth/verify-otp", http.StatusOK, "")

	_, _, err := f.client.Auth.VerifyOTP(context.Background(), apitest.PhoneAsha, apitest.DefaultOTP)
	require.Error(t, err)
	token, _ := f.sess.GetToken(context.Background())
	assert.Empty(t, token)
}

func TestSessionFor(t *testing.T) {
	s := SessionFor("t", "9876543210", models.User{ID: "u1"})
	assert.Equal(t, "u1", s.BrokerID)
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, "9876543210", s.Phone)

	s = SessionFor("t", "9876543210", models.User{ID: "u1", BrokerID: "b9", Phone: "9123456789"})
	assert.Equal(t, "b9", s.BrokerID)
	assert.Equal(t, "9123456789", s.Phone)
}

func TestRegisterAndCheckEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	available, err := f.client.Auth.CheckEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = f.client.Auth.CheckEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.True(t, available)

	_, err = f.client.Auth.CheckEmail(ctx, "not-an-email")
	assert.Equal(t, forms.MsgEmail, err.Error())

	out, err := f.client.Auth.Register(ctx, RegisterRequest{Name: "Dev Patel", Email: "dev@example.com", Phone: "9000011111"})
	require.NoError(t, err)
	assert.True(t, out.IsNewUser)

	_, err = f.client.Auth.Register(ctx, RegisterRequest{Name: "Dev Patel", Email: "dev@example.com", Phone: "9000011111"})
	require.Error(t, err)
	assert.Equal(t, "An account with this phone number already exists", err.Error())
}

func TestCompleteProfile(t *testing.T) {
	f := newFixture(t)
	f.login(t, apitest.BrokerRavi)

	broker, err := f.client.Auth.CompleteProfile(context.Background(), ProfileRequest{
		Name:              "Ravi Kumar",
		Email:             "ravi@example.com",
		FirmName:          "Kumar Estates",
		Address:           "100 Feet Road",
		City:              "Bengaluru",
		State:             "Karnataka",
		Regions:           []string{apitest.RegionIndiranagar, apitest.RegionKoramangala},
		YearsOfExperience: 8,
		Documents: []FileUpload{
			{Field: "brokerImage", Filename: "ravi.png", Content: strings.NewReader("png-bytes")},
		},
	})
	require.NoError(t, err)
	assert.True(t, broker.IsProfileComplete)
	assert.Equal(t, 8, broker.YearsOfExperience)
	assert.Equal(t, "/uploads/ravi.png", broker.BrokerImage)
	require.Len(t, broker.Regions, 2)
	assert.Equal(t, "Indiranagar", broker.Regions[0].Name)

	req, _ := f.srv.LastRequest()
	assert.True(t, strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data; boundary="))
}

func TestCompleteProfileValidates(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.Auth.CompleteProfile(context.Background(), ProfileRequest{Name: "Ravi"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.Equal(t, "Email is required", err.Error())
	assert.Empty(t, f.srv.Requests())
}

func TestLogoutPublishesEvent(t *testing.T) {
	f := newFixture(t)
	f.login(t, apitest.BrokerAsha)
	events := f.sess.Subscribe()

	require.NoError(t, f.client.Auth.Logout(context.Background()))

	got := drain(events)
	require.Len(t, got, 1)
	assert.Equal(t, session.LoggedOut, got[0].Kind)
	assert.Empty(t, f.srv.Requests())
}
