package forms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbrportal/pkg/models"
)

func TestPatterns(t *testing.T) {
	assert.True(t, IsNTN("1234567"))
	assert.True(t, IsNTN("3520212345671"))
	assert.False(t, IsNTN("123456"))
	assert.False(t, IsNTN("12345678"))
	assert.False(t, IsNTN("12345-67"))

	assert.True(t, IsEmail("sara@example.com.pk"))
	assert.False(t, IsEmail("sara@example"))
	assert.False(t, IsEmail("sara@example.c"))

	assert.True(t, IsOTP("042917"))
	assert.False(t, IsOTP("42917"))
}

func TestLoginForm(t *testing.T) {
	errs := LoginForm{}.Validate()
	assert.Equal(t, "Email is required", errs["email"])
	assert.Equal(t, "Password is required", errs["password"])

	errs = LoginForm{Email: "not-an-email", Password: "x"}.Validate()
	assert.Equal(t, "Enter a valid email address", errs["email"])

	f := LoginForm{Email: "  Sara@Example.COM ", Password: " secret "}
	assert.Nil(t, f.Validate())
	creds := f.Credentials()
	assert.Equal(t, "sara@example.com", creds.Email)
	assert.Equal(t, " secret ", creds.Password, "passwords are sent as typed")
}

func TestOTPForm(t *testing.T) {
	errs := OTPForm{Email: "a@b.co", Code: "12a456"}.Validate()
	assert.Equal(t, "Enter a valid 6-digit code", errs["code"])
	assert.Nil(t, OTPForm{Email: "a@b.co", Code: " 123456 "}.Validate())
}

func TestPasswordResetConfirmForm(t *testing.T) {
	errs := PasswordResetConfirmForm{Password: "short"}.Validate()
	assert.Equal(t, "Missing reset token", errs["token"])
	assert.Equal(t, "Password must be at least 8 characters", errs["password"])

	f := PasswordResetConfirmForm{Token: " tok ", Password: "longenough"}
	assert.Nil(t, f.Validate())
	assert.Equal(t, "tok", f.Payload().Token)
}

func TestTenantForm(t *testing.T) {
	errs := TenantForm{NTN: "123"}.Validate()
	assert.True(t, errs.Has("name"))
	assert.Equal(t, "Enter a valid 7-digit NTN or 13-digit CNIC", errs["ntn"])
	assert.Equal(t, "FBR Client Secret is required", errs["fbr_client_secret"])
	assert.ErrorIs(t, errs.Err(), ErrInvalid)

	paid := time.Date(2025, 3, 1, 10, 30, 0, 0, time.FixedZone("PKT", 5*3600))
	f := TenantForm{
		Name:            " Acme ",
		ContactEmail:    "Ops@Acme.PK",
		NTN:             "1234567",
		City:            "Lahore",
		Province:        "Punjab",
		FBRClientSecret: "s3cret",
		LastPaymentAt:   &paid,
	}
	require.Nil(t, f.Validate())
	p := f.Payload()
	assert.Equal(t, "Acme", p.Name)
	assert.Equal(t, "ops@acme.pk", p.ContactEmail)
	require.NotNil(t, p.LastPaymentAt)
	assert.Equal(t, time.UTC, p.LastPaymentAt.Location())
	assert.Equal(t, 5, p.LastPaymentAt.Hour())
}

func TestBuyerFormTenantRequirement(t *testing.T) {
	base := BuyerForm{
		BusinessName:     "Acme Traders",
		NTNCNIC:          "1234567",
		Province:         "Sindh",
		RegistrationType: "registered",
	}

	admin := base
	errs := admin.Validate()
	assert.Equal(t, "Tenant is required", errs["tenant"])

	admin.Tenant = "t-1"
	require.Nil(t, admin.Validate())
	p := admin.Payload()
	require.NotNil(t, p.Tenant)
	assert.Equal(t, models.ID("t-1"), *p.Tenant)

	tenantUser := base
	tenantUser.TenantUser = true
	tenantUser.Tenant = "ignored"
	require.Nil(t, tenantUser.Validate())
	assert.Nil(t, tenantUser.Payload().Tenant)
}

func TestBuyerFormPayloadClearsEmptyOptionals(t *testing.T) {
	f := BuyerForm{TenantUser: true, BusinessName: "Acme", NTNCNIC: "1234567", Province: "Sindh", RegistrationType: "unregistered", Address: "  "}
	p := f.Payload()
	assert.Nil(t, p.Address)
	require.NotNil(t, p.NTNCNIC)
	assert.Equal(t, "1234567", *p.NTNCNIC)
}

func TestBuyerFormRejectsUnknownRegistrationType(t *testing.T) {
	f := BuyerForm{TenantUser: true, BusinessName: "Acme", NTNCNIC: "1234567", Province: "Sindh", RegistrationType: "maybe"}
	assert.Equal(t, "Registration type must be registered or unregistered", f.Validate()["registration_type"])
}

func TestAdminFormPassword(t *testing.T) {
	create := AdminForm{Creating: true, FullName: "Ali", Email: "ali@portal.pk"}
	assert.Equal(t, "Password is required", create.Validate()["password"])

	create.Password = "pw"
	require.Nil(t, create.Validate())
	p := create.Payload()
	assert.Equal(t, "platform", p.Scope)
	assert.Nil(t, p.IsActive)

	update := AdminForm{FullName: "Ali", Email: "ali@portal.pk", IsActive: false}
	require.Nil(t, update.Validate())
	p = update.Payload()
	require.NotNil(t, p.IsActive)
	assert.False(t, *p.IsActive)
	assert.Empty(t, p.Password)
}

func TestMemberPayloads(t *testing.T) {
	f := MemberForm{FullName: " Sara ", Email: "SARA@x.pk"}
	require.Nil(t, f.Validate())

	c := f.CreatePayload()
	assert.Equal(t, "member", c.Role)
	require.NotNil(t, c.IsActive)
	assert.True(t, *c.IsActive)

	u := f.UpdatePayload()
	assert.Equal(t, "Sara", u.FullName)
	assert.Equal(t, "sara@x.pk", u.Email)
	assert.Empty(t, u.Role)
	assert.Nil(t, u.IsActive)
}

func TestInviteFormDefaults(t *testing.T) {
	p := InviteForm{Email: "new@x.pk"}.Payload()
	assert.Equal(t, "member", p.Role)
	assert.Equal(t, InviteExpiryHours, p.ExpiresInHours)
}

func TestFieldErrorsKeepFirstMessage(t *testing.T) {
	fe := FieldErrors{}
	fe.Add("email", "first")
	fe.Add("email", "second")
	fe.Add("name", "missing")
	assert.Equal(t, "first", fe["email"])
	assert.Equal(t, []string{"email", "name"}, fe.Fields())
	assert.Equal(t, "email: first; name: missing", fe.Error())
	assert.NoError(t, FieldErrors{}.Err())
}
