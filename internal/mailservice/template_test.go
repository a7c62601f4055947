package mailservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	template := &Template{}

	testCases := []struct {
		name         string
		templateName string
		data         any
		expectedErr  bool
	}{
		{
			name:         "success",
			templateName: welcomeTemplate,
			data:         welcomeData{Name: "Ada", Email: "ada@example.com"},
			expectedErr:  false,
		},
		{
			name:         "invalid template name",
			templateName: "invalid_template.html",
			data:         nil,
			expectedErr:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, p, h, err := template.ParseTemplate(tc.templateName, tc.data)
			assert.Equal(t, tc.expectedErr, err != nil)

			if err == nil {
				assert.Equal(t, "Welcome to Inkwell, Ada!", s.String())
				assert.Contains(t, p.String(), "ada@example.com")
				assert.Contains(t, h.String(), "<strong>ada@example.com</strong>")
			}
		})
	}
}

func TestParseTemplateReusesParsedTemplate(t *testing.T) {
	tp := NewTemplate()

	s1, _, _, err := tp.ParseTemplate(welcomeTemplate, welcomeData{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	s2, _, h2, err := tp.ParseTemplate(welcomeTemplate, welcomeData{Name: "Bob", Email: "<bob@example.com>"})
	require.NoError(t, err)

	assert.Len(t, tp.parsed, 1)
	assert.Equal(t, "Welcome to Inkwell, Ada!", s1.String())
	assert.Equal(t, "Welcome to Inkwell, Bob!", s2.String())
	assert.Contains(t, h2.String(), "&lt;bob@example.com&gt;")
}
