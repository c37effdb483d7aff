// ABOUTME: Authentication CLI commands
// ABOUTME: OTP login, registration, logout and session inspection
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/adda/api"
	"github.com/harperreed/adda/session"
)

// AuthLoginCommand sends an OTP and, unless --send-only, prompts for it.
func AuthLoginCommand(ctx context.Context, app *App, args []string) error {
	fs := app.flags("auth login")
	phone := fs.String("phone", "", "10-digit mobile number")
	otp := fs.String("otp", "", "OTP, skips the prompt")
	sendOnly := fs.Bool("send-only", false, "Send the OTP and exit; finish with 'auth verify'")
	resend := fs.Bool("resend", false, "Ask for a fresh OTP")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *phone == "" {
		p, err := app.prompt("Phone number: ")
		if err != nil {
			return err
		}
		*phone = p
	}

	send := app.Client.Auth.SendOTP
	if *resend {
		send = app.Client.Auth.ResendOTP
	}
	resp, err := send(ctx, *phone)
	if err != nil {
		return err
	}
	app.printf("✓ %s\n", dashDefault(resp.Message, "OTP sent"))
	if resp.IsNewUser {
		app.println("  New number: complete your profile after logging in (adda profile complete)")
	}
	if *sendOnly {
		return nil
	}

	if *otp == "" {
		code, err := app.promptSecret("Enter the 6-digit OTP: ")
		if err != nil {
			return err
		}
		*otp = code
	}
	return verify(ctx, app, *phone, *otp)
}

// AuthVerifyCommand completes a login started with --send-only.
func AuthVerifyCommand(ctx context.Context, app *App, args []string) error {
	fs := app.flags("auth verify")
	phone := fs.String("phone", "", "10-digit mobile number (required)")
	otp := fs.String("otp", "", "6-digit OTP (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *phone == "" {
		return fmt.Errorf("--phone is required")
	}
	return verify(ctx, app, *phone, *otp)
}

func verify(ctx context.Context, app *App, phone, otp string) error {
	sess, user, err := app.Client.Auth.VerifyOTP(ctx, phone, otp)
	if err != nil {
		return err
	}

	name := user.Name
	if name == "" {
		name = sess.Phone
	}
	app.printf("✓ Logged in as %s (broker %s)\n", name, sess.BrokerID)
	if !user.IsProfileComplete {
		app.println("  Your profile is incomplete. Run: adda profile complete")
	}
	return nil
}

// AuthRegisterCommand creates an account and sends an OTP.
func AuthRegisterCommand(ctx context.Context, app *App, args []string) error {
	fs := app.flags("auth register")
	name := fs.String("name", "", "Full name (required)")
	email := fs.String("email", "", "Email address (required)")
	phone := fs.String("phone", "", "10-digit mobile number (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := app.Client.Auth.Register(ctx, api.RegisterRequest{Name: *name, Email: *email, Phone: *phone})
	if err != nil {
		return err
	}
	app.printf("✓ %s\n", dashDefault(resp.Message, "OTP sent"))
	app.printf("  Finish with: adda auth verify --phone %s --otp <code>\n", *phone)
	return nil
}

func AuthLogoutCommand(ctx context.Context, app *App, _ []string) error {
	if err := app.Client.Auth.Logout(ctx); err != nil {
		return err
	}
	app.println("✓ Logged out")
	return nil
}

// AuthWhoamiCommand prints the stored session without calling the API.
func AuthWhoamiCommand(ctx context.Context, app *App, _ []string) error {
	s, err := app.Client.Session().Load(ctx)
	if err != nil {
		return err
	}
	if !s.Authenticated() {
		app.println("Not logged in")
		return nil
	}

	app.printf("Phone:     %s\n", s.Phone)
	app.printf("Broker ID: %s\n", s.BrokerID)
	if exp, ok := session.TokenExpiry(s.Token); ok {
		state := "valid"
		if time.Now().After(exp) {
			state = "expired"
		}
		app.printf("Token:     %s until %s\n", state, exp.Local().Format(time.RFC1123))
	}
	return nil
}

func dashDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
