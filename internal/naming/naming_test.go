package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"getPetById", "get_pet_by_id"},
		{"get_pet_by_id", "get_pet_by_id"},
		{"GetPetById", "get_pet_by_id"},
		{"petId", "pet_id"},
		{"fooBar", "foo_bar"},
		{"baz", "baz"},
		{"HTTPServer", "http_server"},
		{"list-pets", "list_pets"},
		{"Pet Store", "pet_store"},
		{"pets.list", "pets_list"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Snake(tt.in))
		})
	}
}

func TestSnake_Stable(t *testing.T) {
	// Test: canonicalizing twice changes nothing
	for _, in := range []string{"getPetById", "listAllPets", "HTTPServer", "petId"} {
		once := Snake(in)
		assert.Equal(t, once, Snake(once), in)
	}
}

func TestGoName(t *testing.T) {
	assert.Equal(t, "GetPetById", GoName("get_pet_by_id"))
	assert.Equal(t, "GetPetById", GoName("getPetById"))
	assert.Equal(t, "AddPetApplicationJson", GoName("add_pet_application_json"))
	assert.Equal(t, "Pets", GoName("pets"))
	assert.Equal(t, "NoTag", GoName("NoTag"))
	assert.Equal(t, "X", GoName(""))
}

func TestLocalName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"pet_id", "petId"},
		{"petId", "petId"},
		{"type", "typeParam"},
		{"func", "funcParam"},
		{"c", "cParam"},
		{"body", "bodyParam"},
		{"err", "errParam"},
		{"any", "anyParam"},
		{"nil", "nilParam"},
		{"", "param"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, LocalName(tt.in))
		})
	}
}

func TestContentTypeSuffix(t *testing.T) {
	assert.Equal(t, "application_json", ContentTypeSuffix("application/json"))
	assert.Equal(t, "application_xml", ContentTypeSuffix("application/xml"))
	assert.Equal(t, "application_vnd_api_json", ContentTypeSuffix("application/vnd.api+json"))
	assert.Equal(t, "application_x_www_form_urlencoded", ContentTypeSuffix("application/x-www-form-urlencoded"))
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single placeholder", "/pets/{petId}", "/pets/:pet_id"},
		{"multiple placeholders", "/a/{fooBar}/b/{baz}", "/a/:foo_bar/b/:baz"},
		{"no placeholder", "/pets", "/pets"},
		{"already normalized", "/pets/:pet_id", "/pets/:pet_id"},
		{"adjacent placeholders", "/{a}{bC}", "/:a:b_c"},
		{"trailing text", "/files/{fileName}.json", "/files/:file_name.json"},
		{"unclosed brace", "/pets/{petId", "/pets/petId"},
		{"root", "/", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.in))
		})
	}
}

func TestNormalizePath_Idempotent(t *testing.T) {
	for _, in := range []string{"/pets/{petId}", "/a/{fooBar}/b/{baz}", "/users/{userId}/orders/{orderId}"} {
		once := NormalizePath(in)
		assert.Equal(t, once, NormalizePath(once), in)
	}
}

func TestPathParams(t *testing.T) {
	assert.Equal(t, []string{"fooBar", "baz"}, PathParams("/a/{fooBar}/b/{baz}"))
	assert.Empty(t, PathParams("/pets"))
	assert.Equal(t, []string{"a"}, PathParams("/{a}/{b"))
}
