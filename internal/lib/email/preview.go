package email

// PreviewData holds sample values for every template, keyed by template name.
var PreviewData = map[Template]map[string]string{
	TemplateWelcome: {
		"UserName":  "Ada",
		"ClientURL": "http://localhost:3000",
	},
}
