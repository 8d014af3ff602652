package voxel

import (
	"iter"

	"github.com/chewxy/math32"
	"github.com/jinzhu/copier"

	"pixel2gltf/internal/gltf"
)

// Gamma is the exponent used to turn 8-bit sRGB into linear base colour.
const Gamma = 2.2

// Builder grows a template document into a voxel scene: one material, one mesh and one node
// per solid cell. Material 0 and mesh 0 of the template are the prototypes every voxel copies;
// the first solid cell takes them over in place so no unused prototype is left behind.
//
// The document must satisfy gltf.Document.ValidateTemplate.
type Builder struct {
	doc     *gltf.Document
	opts    Options
	xOffset float32
	yOffset float32
	first   bool
}

// NewBuilder returns a builder that places voxels for an image of width x height pixels.
// Node positions are centred on the X axis and hang down from the top row.
func NewBuilder(doc *gltf.Document, opts Options, width, height int) *Builder {
	opts = opts.normalized()
	vd := opts.VoxelDimension
	cols := width / opts.CellSize
	rows := height / opts.CellSize
	return &Builder{
		doc:     doc,
		opts:    opts,
		xOffset: -float32(cols) * vd * 0.5,
		yOffset: float32(rows)*vd - vd*0.5,
		first:   true,
	}
}

// Build adds every solid cell of cells and returns the number of nodes created.
func (b *Builder) Build(cells iter.Seq[Cell]) int {
	n := 0
	for c := range cells {
		if b.Add(c) {
			n++
		}
	}
	return n
}

// Add appends the voxel for c and reports whether it did; background cells are skipped.
func (b *Builder) Add(c Cell) bool {
	if !c.Solid {
		return false
	}
	doc := b.doc

	materialIndex := len(doc.Materials)
	meshIndex := len(doc.Meshes)
	if b.first {
		materialIndex, meshIndex = 0, 0
	}

	var mtl gltf.Material
	deepCopy(&mtl, &doc.Materials[0])
	setBaseColor(&mtl, c.Color)

	var mesh gltf.Mesh
	deepCopy(&mesh, &doc.Meshes[0])
	mesh.Primitives[0].Material = gltf.Index(materialIndex)

	if b.first {
		doc.Materials[0] = mtl
		doc.Meshes[0] = mesh
	} else {
		doc.Materials = append(doc.Materials, mtl)
		doc.Meshes = append(doc.Meshes, mesh)
	}

	vd := b.opts.VoxelDimension
	nodeIndex := len(doc.Nodes)
	doc.Nodes = append(doc.Nodes, gltf.Node{
		Mesh: gltf.Index(meshIndex),
		Translation: &[3]float32{
			b.xOffset + float32(c.Col)*vd,
			b.yOffset - float32(c.Row)*vd,
			0,
		},
	})
	doc.Nodes[0].Children = append(doc.Nodes[0].Children, nodeIndex)

	b.first = false
	return true
}

// LinearColor converts c to linear RGB with a fixed 2.2 gamma.
func LinearColor(c RGB) [3]float32 {
	return [3]float32{toLinear(c.R), toLinear(c.G), toLinear(c.B)}
}

func toLinear(v uint8) float32 {
	return math32.Pow(float32(v)/255, Gamma)
}

// setBaseColor replaces the RGB part of the base colour factor and keeps alpha.
// A material without one starts from opaque white.
func setBaseColor(mtl *gltf.Material, c RGB) {
	if mtl.PBRMetallicRoughness == nil {
		mtl.PBRMetallicRoughness = &gltf.PBRMetallicRoughness{}
	}
	factor := [4]float32{1, 1, 1, 1}
	if f := mtl.PBRMetallicRoughness.BaseColorFactor; f != nil {
		factor = *f
	}
	lin := LinearColor(c)
	copy(factor[:3], lin[:])
	mtl.PBRMetallicRoughness.BaseColorFactor = &factor
}

func deepCopy(to, from any) {
	// copier only fails for mismatched or nil arguments, which the typed callers rule out.
	if err := copier.CopyWithOption(to, from, copier.Option{DeepCopy: true}); err != nil {
		panic(err)
	}
}
