package render

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Shader represents an OpenGL shader program
type Shader struct {
	ID uint32
}

// NewShader compiles and links a program from vertex and fragment sources.
func NewShader(vertexSrc, fragmentSrc string) (*Shader, error) {
	program, err := compileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return &Shader{ID: program}, nil
}

// Use activates the shader program
func (s *Shader) Use() {
	gl.UseProgram(s.ID)
}

func (s *Shader) Delete() {
	gl.DeleteProgram(s.ID)
}

func (s *Shader) uniform(name string) int32 {
	return gl.GetUniformLocation(s.ID, gl.Str(name+"\x00"))
}

func (s *Shader) SetFloat(name string, value float32) {
	gl.Uniform1f(s.uniform(name), value)
}

func (s *Shader) SetVector3(name string, v mgl32.Vec3) {
	gl.Uniform3f(s.uniform(name), v[0], v[1], v[2])
}

func (s *Shader) SetMatrix4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(s.uniform(name), 1, false, &m[0])
}

func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %v", log)
	}
	return shader, nil
}

// VoxelVertexShader and VoxelFragmentShader draw chunk meshes with baked
// per-vertex shading and a fixed directional light.
const VoxelVertexShader = `#version 410 core
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec4 aColor;

uniform mat4 proj;
uniform mat4 view;
uniform vec3 offset;

out vec3 vNormal;
out vec4 vColor;

void main() {
	vNormal = aNormal;
	vColor = aColor;
	gl_Position = proj * view * vec4(aPos + offset, 1.0);
}
`

const VoxelFragmentShader = `#version 410 core
in vec3 vNormal;
in vec4 vColor;

uniform vec3 lightDir;

out vec4 fragColor;

void main() {
	float diffuse = 0.6 + 0.4 * max(dot(normalize(vNormal), -lightDir), 0.0);
	fragColor = vec4(vColor.rgb * diffuse, vColor.a);
}
`
