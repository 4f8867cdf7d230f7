package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-mesh/common"
	"github.com/Carmen-Shannon/oxy-mesh/engine/mesh"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// exportConfig holds the options for one export call.
type exportConfig struct {
	name      string
	generator string
	material  bool
	logger    *slog.Logger
}

// ExportOption is a functional option for configuring an export.
type ExportOption func(c *exportConfig)

// WithName sets the mesh and node name written to the document. Defaults to "Mesh".
func WithName(name string) ExportOption {
	return func(c *exportConfig) {
		c.name = name
	}
}

// WithGenerator sets the asset generator string. Defaults to "oxy-mesh".
func WithGenerator(generator string) ExportOption {
	return func(c *exportConfig) {
		c.generator = generator
	}
}

// WithMaterial attaches a plain white metallic-roughness material to the primitive.
// Defaults to true.
func WithMaterial(enabled bool) ExportOption {
	return func(c *exportConfig) {
		c.material = enabled
	}
}

// WithLogger routes export warnings to logger instead of slog.Default().
func WithLogger(logger *slog.Logger) ExportOption {
	return func(c *exportConfig) {
		c.logger = logger
	}
}

func newExportConfig(opts []ExportOption) *exportConfig {
	c := &exportConfig{
		name:      "Mesh",
		generator: "oxy-mesh",
		material:  true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// BuildDocument converts data into a single-mesh glTF document. Positions, normals, texture
// coordinates and indices are always written. Tangents are written as VEC4 with the
// handedness in w, unless some tangent is non-finite, in which case the attribute is left
// out so the file stays valid.
//
// Parameters:
//   - data: the generated mesh
//   - opts: export options
//
// Returns:
//   - *gltf.Document: the in-memory document
//   - error: ErrInvalidParameter for an empty mesh
func BuildDocument(data *mesh.MeshData, opts ...ExportOption) (*gltf.Document, error) {
	if data == nil || len(data.Vertices) == 0 {
		return nil, fmt.Errorf("cannot export an empty mesh: %w", common.ErrInvalidParameter)
	}
	cfg := newExportConfig(opts)

	n := len(data.Vertices)
	positions := make([][3]float32, n)
	normals := make([][3]float32, n)
	uvs := make([][2]float32, n)
	tangents := make([][4]float32, n)
	tangentsValid := true
	for i, v := range data.Vertices {
		positions[i] = v.Position
		normals[i] = v.Normal
		uvs[i] = v.TexCoord
		tangents[i] = TangentWithHandedness(v)
		for _, c := range tangents[i] {
			if !common.IsFinite(c) {
				tangentsValid = false
			}
		}
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = cfg.generator

	prim := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION:   uint32(modeler.WritePosition(doc, positions)),
			gltf.NORMAL:     uint32(modeler.WriteNormal(doc, normals)),
			gltf.TEXCOORD_0: uint32(modeler.WriteTextureCoord(doc, uvs)),
		},
	}
	if tangentsValid {
		prim.Attributes[gltf.TANGENT] = uint32(modeler.WriteTangent(doc, tangents))
	} else {
		cfg.logger.Warn("skipping non-finite tangents in export", "name", cfg.name, "vertices", n)
	}
	if data.Indexed() {
		prim.Indices = gltf.Index(uint32(modeler.WriteIndices(doc, data.Indices)))
	}

	if cfg.material {
		doc.Materials = []*gltf.Material{{
			Name: cfg.name + "Material",
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float32{1, 1, 1, 1},
				MetallicFactor:  gltf.Float(0),
				RoughnessFactor: gltf.Float(1),
			},
			AlphaMode: gltf.AlphaOpaque,
		}}
		prim.Material = gltf.Index(0)
	}

	doc.Meshes = []*gltf.Mesh{{Name: cfg.name, Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: cfg.name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(0))

	return doc, nil
}

// ExportGLTF writes data to path. A ".glb" extension produces a binary container; any other
// extension produces JSON glTF with the buffer embedded as a data URI.
//
// Parameters:
//   - path: destination file
//   - data: the generated mesh
//   - opts: export options
//
// Returns:
//   - error: ErrInvalidParameter for an empty mesh, or the wrapped write error
func ExportGLTF(path string, data *mesh.MeshData, opts ...ExportOption) error {
	doc, err := BuildDocument(data, opts...)
	if err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(path), ".glb") {
		if err := gltf.SaveBinary(doc, path); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	}

	for _, b := range doc.Buffers {
		b.EmbeddedResource()
	}
	if err := gltf.Save(doc, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// TangentWithHandedness returns the vertex tangent as a glTF VEC4 whose w is +1 when
// (normal x tangent) points along the bitangent and -1 otherwise.
//
// Parameters:
//   - v: the packed vertex
//
// Returns:
//   - [4]float32: tangent xyz and handedness w
func TangentWithHandedness(v mesh.GPUMeshVertex) [4]float32 {
	n := mgl32.Vec3(v.Normal)
	t := mgl32.Vec3(v.Tangent)
	w := float32(1)
	if n.Cross(t).Dot(mgl32.Vec3(v.Bitangent)) < 0 {
		w = -1
	}
	return [4]float32{t[0], t[1], t[2], w}
}

// WriteRaw dumps the exact GPU payload of data next to prefix: prefix+".vertices.bin" always,
// and prefix+".indices.bin" for indexed meshes.
//
// Parameters:
//   - prefix: path prefix for the output files
//   - data: the generated mesh
//
// Returns:
//   - []string: the files written
//   - error: ErrInvalidParameter for an empty mesh, or the wrapped write error
func WriteRaw(prefix string, data *mesh.MeshData) ([]string, error) {
	if data == nil || len(data.Vertices) == 0 {
		return nil, fmt.Errorf("cannot dump an empty mesh: %w", common.ErrInvalidParameter)
	}

	written := make([]string, 0, 2)
	vertexPath := prefix + ".vertices.bin"
	if err := os.WriteFile(vertexPath, data.VertexBytes(), 0o644); err != nil {
		return written, fmt.Errorf("failed to write %s: %w", vertexPath, err)
	}
	written = append(written, vertexPath)

	if data.Indexed() {
		indexPath := prefix + ".indices.bin"
		if err := os.WriteFile(indexPath, data.IndexBytes(), 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", indexPath, err)
		}
		written = append(written, indexPath)
	}
	return written, nil
}
