// ABOUTME: Authentication endpoints: OTP login, registration and profile completion
// ABOUTME: Validates input before any request and persists the session on successful verification
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/harperreed/adda/forms"
	"github.com/harperreed/adda/models"
)

type AuthService service

// OTPResponse is returned when the backend sends an OTP.
type OTPResponse struct {
	Message   string `json:"message"`
	IsNewUser bool   `json:"isNewUser"`
	// OTP is only echoed by development backends.
	OTP string `json:"otp,omitempty"`
}

type verifyResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// SendOTP requests a login OTP for phone.
func (s *AuthService) SendOTP(ctx context.Context, phone string) (*OTPResponse, error) {
	return s.sendOTP(ctx, "/api/auth/login", phone)
}

// ResendOTP asks for another OTP for the same phone.
func (s *AuthService) ResendOTP(ctx context.Context, phone string) (*OTPResponse, error) {
	return s.sendOTP(ctx, "/api/auth/resend-otp", phone)
}

func (s *AuthService) sendOTP(ctx context.Context, path, phone string) (*OTPResponse, error) {
	phone = forms.NormalizePhone(phone)
	if err := forms.Validate(forms.PhoneForm{Phone: phone}); err != nil {
		return nil, validationError(err)
	}

	var out OTPResponse
	if err := s.client.call(ctx, http.MethodPost, path, nil, map[string]string{"phone": phone}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyOTP exchanges phone and otp for a token. The session is persisted
// before VerifyOTP returns.
func (s *AuthService) VerifyOTP(ctx context.Context, phone, otp string) (*models.Session, *models.User, error) {
	phone = forms.NormalizePhone(phone)
	otp = strings.TrimSpace(otp)
	if err := forms.Validate(forms.OTPForm{Phone: phone, OTP: otp}); err != nil {
		return nil, nil, validationError(err)
	}

	var out verifyResponse
	body := map[string]string{"phone": phone, "otp": otp}
	if err := s.client.call(ctx, http.MethodPost, "/api/auth/verify-otp", nil, body, &out); err != nil {
		return nil, nil, err
	}
	if out.Token == "" {
		return nil, nil, &Error{Kind: KindDecode, Message: "Login failed. The server did not return a session."}
	}

	sess := SessionFor(out.Token, phone, out.User)
	if err := s.client.session.Save(ctx, sess); err != nil {
		return nil, nil, &Error{Kind: KindUnknown, Message: "Could not save your login. Please try again.", Err: err}
	}
	return &sess, &out.User, nil
}

// SessionFor derives the persisted session from a verify response. The broker
// id falls back to the user id for accounts without a separate broker record.
func SessionFor(token, phone string, user models.User) models.Session {
	if user.Phone != "" {
		phone = user.Phone
	}
	brokerID := user.BrokerID
	if brokerID == "" {
		brokerID = user.ID
	}
	return models.Session{Token: token, Phone: phone, BrokerID: brokerID, UserID: user.ID}
}

type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Register creates an account and triggers an OTP to the phone.
func (s *AuthService) Register(ctx context.Context, r RegisterRequest) (*OTPResponse, error) {
	r.Phone = forms.NormalizePhone(r.Phone)
	r.Email = strings.TrimSpace(r.Email)
	if err := forms.Validate(forms.RegisterForm{Name: r.Name, Email: r.Email, Phone: r.Phone}); err != nil {
		return nil, validationError(err)
	}

	var out OTPResponse
	if err := s.client.call(ctx, http.MethodPost, "/api/auth/register", nil, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckEmail reports whether email is free to register.
func (s *AuthService) CheckEmail(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if err := forms.Validate(forms.EmailForm{Email: email}); err != nil {
		return false, validationError(err)
	}

	var out struct {
		Exists    *bool `json:"exists"`
		Available *bool `json:"available"`
	}
	q := newParams().str("email", email).Values
	if err := s.client.call(ctx, http.MethodGet, "/api/auth/check-email", q, nil, &out); err != nil {
		return false, err
	}
	switch {
	case out.Available != nil:
		return *out.Available, nil
	case out.Exists != nil:
		return !*out.Exists, nil
	}
	return false, &Error{Kind: KindDecode, Message: MsgDecode}
}

// ProfileRequest completes a broker profile after first login.
type ProfileRequest struct {
	Name              string
	Email             string
	FirmName          string
	LicenseNumber     string
	Address           string
	City              string
	State             string
	Regions           []string
	Specializations   []string
	YearsOfExperience int
	// Documents are sent as file parts: brokerImage, aadharFront, panCard...
	Documents []FileUpload
}

func (s *AuthService) CompleteProfile(ctx context.Context, r ProfileRequest) (*models.Broker, error) {
	err := forms.Validate(forms.ProfileForm{
		Name:              r.Name,
		Email:             r.Email,
		FirmName:          r.FirmName,
		LicenseNumber:     r.LicenseNumber,
		Address:           r.Address,
		City:              r.City,
		State:             r.State,
		Regions:           r.Regions,
		YearsOfExperience: r.YearsOfExperience,
	})
	if err != nil {
		return nil, validationError(err)
	}

	f := &form{}
	f.set("name", r.Name)
	f.set("email", r.Email)
	f.set("firmName", r.FirmName)
	f.set("licenseNumber", r.LicenseNumber)
	f.set("address", r.Address)
	f.set("city", r.City)
	f.set("state", r.State)
	if r.YearsOfExperience > 0 {
		f.set("yearsOfExperience", strconv.Itoa(r.YearsOfExperience))
	}
	if err := f.setJSON("regions", r.Regions); err != nil {
		return nil, validationError(err)
	}
	if len(r.Specializations) > 0 {
		if err := f.setJSON("specializations", r.Specializations); err != nil {
			return nil, validationError(err)
		}
	}
	f.attach(r.Documents...)

	var out models.Broker
	if err := s.client.upload(ctx, http.MethodPost, "/api/auth/complete-profile", f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout clears local auth state. There is no server call.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.client.session.Logout(ctx)
}
