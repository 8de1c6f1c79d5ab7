package validator

var MeetupSchema = Schema{
	Name: "meetup",
	Fields: []Field{
		{Name: "titulo", Kind: String, Required: true},
		{Name: "descricao", Kind: String, Required: true},
		{Name: "localizacao", Kind: String, Required: true},
		{Name: "data_hora", Kind: Date, Required: true},
		{Name: "banner_id", Kind: Integer, Required: true, Rules: "gte=1,lte=2147483647"},
	},
}

var SessionSchema = Schema{
	Name: "session",
	Fields: []Field{
		{Name: "email", Kind: String, Required: true, Rules: "email"},
		{Name: "password", Kind: String, Required: true},
	},
}

var UserCreateSchema = Schema{
	Name: "user_create",
	Fields: []Field{
		{Name: "name", Kind: String, Required: true},
		{Name: "email", Kind: String, Required: true, Rules: "email"},
		{Name: "password", Kind: String, Required: true, Rules: "min=6"},
	},
}

// UserUpdateSchema only types the fields; the password-change rules that
// depend on several fields live in the users service.
var UserUpdateSchema = Schema{
	Name: "user_update",
	Fields: []Field{
		{Name: "name", Kind: String},
		{Name: "email", Kind: String, Rules: "email"},
		{Name: "old_password", Kind: String, Rules: "min=6"},
		{Name: "password", Kind: String, Rules: "min=6"},
		{Name: "confirm_password", Kind: String},
	},
}
