package validator

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aleodoni/meetapp/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	return m
}

func TestMeetupSchemaEmptyBody(t *testing.T) {
	result := Validate(MeetupSchema, decode(t, `{}`))

	assert.False(t, result.Valid())
	assert.Equal(t, []string{
		"titulo is a required field",
		"descricao is a required field",
		"localizacao is a required field",
		"data_hora is a required field",
		"banner_id is a required field",
	}, result.Errors)

	var validation *errs.ValidationError
	require.ErrorAs(t, result.Err(), &validation)
	assert.Len(t, validation.Errors, 5)
}

func TestMeetupSchemaNilBody(t *testing.T) {
	result := Validate(MeetupSchema, nil)
	assert.Len(t, result.Errors, 5)
}

func TestMeetupSchemaValid(t *testing.T) {
	result := Validate(MeetupSchema, decode(t, `{
		"titulo": "Go Meetup",
		"descricao": "Talks about Go",
		"localizacao": "Curitiba",
		"data_hora": "2030-05-10T19:30:00-03:00",
		"banner_id": 3
	}`))

	require.True(t, result.Valid(), result.Errors)
	assert.NoError(t, result.Err())
	assert.Equal(t, "Go Meetup", result.String("titulo"))
	assert.Equal(t, int64(3), result.Int("banner_id"))

	want := time.Date(2030, 5, 10, 22, 30, 0, 0, time.UTC)
	assert.True(t, want.Equal(result.Time("data_hora")))
}

func TestMeetupSchemaTypeErrors(t *testing.T) {
	result := Validate(MeetupSchema, decode(t, `{
		"titulo": 10,
		"descricao": "ok",
		"localizacao": "",
		"data_hora": "next tuesday",
		"banner_id": 1.5
	}`))

	assert.Equal(t, []string{
		"titulo must be a `string` type",
		"localizacao is a required field",
		"data_hora must be a `date` type",
		"banner_id must be an integer",
	}, result.Errors)
}

func TestIntegerAcceptsNumericStrings(t *testing.T) {
	result := Validate(MeetupSchema, decode(t, `{
		"titulo": "a", "descricao": "b", "localizacao": "c",
		"data_hora": "2030-01-01", "banner_id": "7"
	}`))

	require.True(t, result.Valid(), result.Errors)
	assert.Equal(t, int64(7), result.Int("banner_id"))
}

func TestBannerIDRange(t *testing.T) {
	tests := []struct {
		name     string
		bannerID string
		want     []string
	}{
		{"smallest id", `1`, nil},
		{"largest id", `2147483647`, nil},
		{"zero", `0`, []string{"banner_id must be greater than or equal to 1"}},
		{"negative", `-4`, []string{"banner_id must be greater than or equal to 1"}},
		{"above column range", `2147483648`, []string{"banner_id must be less than or equal to 2147483647"}},
		{"above int64 range", `1e19`, []string{"banner_id must be a safe integer"}},
		{"huge negative", `-1e19`, []string{"banner_id must be a safe integer"}},
		{"numeric string too large", `"99999999999999999999"`, []string{"banner_id must be a safe integer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(MeetupSchema, decode(t, `{
				"titulo": "a", "descricao": "b", "localizacao": "c",
				"data_hora": "2030-01-01", "banner_id": `+tt.bannerID+`
			}`))

			if tt.want == nil {
				require.True(t, result.Valid(), result.Errors)
				assert.Positive(t, result.Int("banner_id"))
				return
			}
			assert.False(t, result.Valid())
			assert.Equal(t, tt.want, result.Errors)
			assert.False(t, result.Has("banner_id"))
		})
	}
}

func TestIntegerRejectsBooleans(t *testing.T) {
	result := Validate(Schema{Fields: []Field{{Name: "n", Kind: Integer, Required: true}}},
		map[string]interface{}{"n": true})
	assert.Equal(t, []string{"n must be a `number` type"}, result.Errors)
}

func TestSessionSchema(t *testing.T) {
	result := Validate(SessionSchema, decode(t, `{"email": "not-an-email"}`))
	assert.Equal(t, []string{
		"email must be a valid email",
		"password is a required field",
	}, result.Errors)

	result = Validate(SessionSchema, decode(t, `{"email": "ana@meetapp.com", "password": "secret"}`))
	assert.True(t, result.Valid())
}

func TestUserCreateSchemaMinLength(t *testing.T) {
	result := Validate(UserCreateSchema, decode(t, `{"name": "Ana", "email": "ana@meetapp.com", "password": "123"}`))
	assert.Equal(t, []string{"password must be at least 6 characters"}, result.Errors)
}

func TestUserUpdateSchemaOptionalFields(t *testing.T) {
	result := Validate(UserUpdateSchema, decode(t, `{"name": "Ana"}`))

	require.True(t, result.Valid())
	assert.True(t, result.Has("name"))
	assert.False(t, result.Has("password"))
}

func TestValidateDoesNotShareState(t *testing.T) {
	bad := Validate(MeetupSchema, decode(t, `{}`))
	good := Validate(SessionSchema, decode(t, `{"email": "a@b.co", "password": "x"}`))

	assert.Len(t, bad.Errors, 5)
	assert.Empty(t, good.Errors)
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{
		"2030-05-10T19:30:00Z",
		"2030-05-10T19:30:00.123Z",
		"2030-05-10T19:30:00",
		"2030-05-10T19:30",
	} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, 19, got.Hour(), in)
	}

	_, err := ParseDate("10/05/2030")
	assert.Error(t, err)
}

func TestParseDateWithoutOffsetIsUTC(t *testing.T) {
	got, err := ParseDate("2030-05-10T19:30")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.Location())
	assert.True(t, time.Date(2030, 5, 10, 19, 30, 0, 0, time.UTC).Equal(got))

	withOffset, err := ParseDate("2030-05-11T01:00:00+05:30")
	require.NoError(t, err)
	assert.True(t, got.Equal(withOffset))
}
