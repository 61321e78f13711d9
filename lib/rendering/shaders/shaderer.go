package shaders

import (
	"bytes"
	"embed"
	"fmt"
	"image/color"
	"strconv"
	"text/template"
)

//go:embed *.frag *.vert
var templateDir embed.FS

const (
	VertexShaderName   = "triangle.vert"
	FragmentShaderName = "triangle.frag"
)

type Shaderer struct {
	templates *template.Template
}

func NewShaderer() (*Shaderer, error) {
	s := &Shaderer{}

	var err error

	s.templates, err = template.New("").Funcs(template.FuncMap{
		"channel": channel,
	}).ParseFS(templateDir, "*.frag", "*.vert")

	return s, err
}

// ShaderData contains stuff that gets passed to the shader
type ShaderData struct {
	GLSLVersion int
	FillColour  color.RGBA
}

func NewShaderData(fill color.RGBA) *ShaderData {
	return &ShaderData{
		GLSLVersion: 400,
		FillColour:  fill,
	}
}

// channel renders an 8-bit channel as a GLSL float literal that
// quantizes back to the same value.
func channel(v uint8) string {
	return strconv.FormatFloat(float64(v)/255, 'f', 6, 64)
}

func (s *Shaderer) GetShaderSource(name string, data *ShaderData) (string, error) {
	var b bytes.Buffer
	err := s.templates.ExecuteTemplate(&b, name, data)
	if err != nil {
		return "", fmt.Errorf("error while rendering template: %s", err)
	}

	return b.String(), nil
}

// Sources renders the vertex and fragment shader pair.
func (s *Shaderer) Sources(data *ShaderData) (vertex string, fragment string, err error) {
	vertex, err = s.GetShaderSource(VertexShaderName, data)
	if err != nil {
		return "", "", fmt.Errorf("could not get vertex shader: %w", err)
	}
	fragment, err = s.GetShaderSource(FragmentShaderName, data)
	if err != nil {
		return "", "", fmt.Errorf("could not get fragment shader: %w", err)
	}
	return vertex, fragment, nil
}

func (s *Shaderer) TemplateNames() []string {
	var names []string
	for _, t := range s.templates.Templates() {
		if t.Name() == "" {
			continue
		}
		names = append(names, t.Name())
	}
	return names
}
