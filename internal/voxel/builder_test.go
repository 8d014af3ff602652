package voxel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixel2gltf/internal/gltf"
)

const template = `{
	"asset": {"version": "2.0"},
	"scene": 0,
	"scenes": [{"nodes": [0]}],
	"nodes": [{"name": "root"}],
	"meshes": [{"name": "voxel", "primitives": [{"attributes": {"POSITION": 0}, "material": 0}]}],
	"materials": [{"name": "voxel", "pbrMetallicRoughness": {"baseColorFactor": [1, 1, 1, 0.75], "roughnessFactor": 1}}],
	"accessors": [{"componentType": 5126, "count": 8, "type": "VEC3"}]
}`

func loadTemplate(t *testing.T) *gltf.Document {
	t.Helper()
	doc, err := gltf.Parse([]byte(template))
	require.NoError(t, err)
	require.NoError(t, doc.ValidateTemplate())
	return doc
}

func baseColor(t *testing.T, m gltf.Material) [4]float32 {
	t.Helper()
	require.NotNil(t, m.PBRMetallicRoughness)
	require.NotNil(t, m.PBRMetallicRoughness.BaseColorFactor)
	return *m.PBRMetallicRoughness.BaseColorFactor
}

func TestBlankImageAddsNothing(t *testing.T) {
	doc := loadTemplate(t)
	orig := loadTemplate(t)
	buf := newBuffer(t, 100, 75, DefaultBackground)

	n := NewBuilder(doc, DefaultOptions(), buf.Width, buf.Height).Build(NewGrid(buf, DefaultOptions()).Cells())
	assert.Zero(t, n)
	assert.Equal(t, orig.Nodes, doc.Nodes)
	assert.Equal(t, orig.Materials, doc.Materials)
	assert.Equal(t, orig.Meshes, doc.Meshes)
}

func TestQuadrantScenario(t *testing.T) {
	doc := loadTemplate(t)
	buf := newBuffer(t, 50, 50, RGB{10, 10, 10})
	paint(buf, 25, 0, 50, 25, DefaultBackground)

	opts := DefaultOptions()
	b := NewBuilder(doc, opts, buf.Width, buf.Height)
	n := b.Build(NewGrid(buf, opts).Cells())
	require.Equal(t, 3, n)

	assert.Len(t, doc.Materials, 3)
	assert.Len(t, doc.Meshes, 3)
	assert.Len(t, doc.Nodes, 4)
	assert.Equal(t, []int{1, 2, 3}, doc.Nodes[0].Children)

	// xOffset = -(50/25)*2*0.5 = -2, yOffset = (50/25)*2 - 1 = 3.
	want := [][3]float32{{-2, 3, 0}, {-2, 1, 0}, {0, 1, 0}}
	for i, w := range want {
		node := doc.Nodes[i+1]
		require.NotNil(t, node.Translation)
		assert.Equal(t, w, *node.Translation, "node %d", i+1)
		assert.Equal(t, i, *node.Mesh)
		assert.Equal(t, i, *doc.Meshes[i].Primitives[0].Material)
	}
}

func TestMaterialColorIsLinear(t *testing.T) {
	doc := loadTemplate(t)
	buf := newBuffer(t, 25, 25, RGB{10, 128, 200})
	opts := DefaultOptions()
	NewBuilder(doc, opts, buf.Width, buf.Height).Build(NewGrid(buf, opts).Cells())

	c := baseColor(t, doc.Materials[0])
	for i, v := range []float64{10, 128, 200} {
		assert.InDelta(t, math.Pow(v/255, 2.2), float64(c[i]), 1e-6)
	}
	assert.Equal(t, float32(0.75), c[3])
	assert.Equal(t, "voxel", doc.Materials[0].Name)
	require.NotNil(t, doc.Materials[0].PBRMetallicRoughness.RoughnessFactor)
	assert.Equal(t, float32(1), *doc.Materials[0].PBRMetallicRoughness.RoughnessFactor)
}

func TestAppendedCopiesDoNotAliasPrototype(t *testing.T) {
	doc := loadTemplate(t)
	buf := newBuffer(t, 50, 25, RGB{10, 10, 10})
	paint(buf, 25, 0, 50, 25, RGB{100, 100, 100})
	opts := DefaultOptions()
	NewBuilder(doc, opts, buf.Width, buf.Height).Build(NewGrid(buf, opts).Cells())

	require.Len(t, doc.Materials, 2)
	first := baseColor(t, doc.Materials[0])
	second := baseColor(t, doc.Materials[1])
	assert.InDelta(t, math.Pow(10.0/255, 2.2), float64(first[0]), 1e-6)
	assert.InDelta(t, math.Pow(100.0/255, 2.2), float64(second[0]), 1e-6)

	assert.Equal(t, 0, *doc.Meshes[0].Primitives[0].Material)
	assert.Equal(t, 1, *doc.Meshes[1].Primitives[0].Material)
	assert.Equal(t, 0, doc.Meshes[1].Primitives[0].Attributes["POSITION"])
}

func TestMaterialWithoutBaseColor(t *testing.T) {
	doc := loadTemplate(t)
	doc.Materials[0].PBRMetallicRoughness = nil
	buf := newBuffer(t, 25, 25, RGB{255, 255, 255})
	opts := DefaultOptions()
	NewBuilder(doc, opts, buf.Width, buf.Height).Build(NewGrid(buf, opts).Cells())

	assert.Equal(t, [4]float32{1, 1, 1, 1}, baseColor(t, doc.Materials[0]))
}

func TestNodeOrderFollowsScan(t *testing.T) {
	doc := loadTemplate(t)
	buf := newBuffer(t, 75, 50, DefaultBackground)
	paint(buf, 50, 0, 75, 25, RGB{1, 1, 1})
	paint(buf, 0, 25, 25, 50, RGB{2, 2, 2})
	paint(buf, 25, 25, 50, 50, RGB{3, 3, 3})
	opts := DefaultOptions()
	NewBuilder(doc, opts, buf.Width, buf.Height).Build(NewGrid(buf, opts).Cells())

	require.Len(t, doc.Nodes, 4)
	// xOffset = -(75/25)*2*0.5 = -3, yOffset = (50/25)*2 - 1 = 3.
	assert.Equal(t, [3]float32{1, 3, 0}, *doc.Nodes[1].Translation)
	assert.Equal(t, [3]float32{-3, 1, 0}, *doc.Nodes[2].Translation)
	assert.Equal(t, [3]float32{-1, 1, 0}, *doc.Nodes[3].Translation)
	for i := 1; i < len(doc.Nodes); i++ {
		c := baseColor(t, doc.Materials[*doc.Meshes[*doc.Nodes[i].Mesh].Primitives[0].Material])
		assert.InDelta(t, math.Pow(float64(i)/255, 2.2), float64(c[0]), 1e-6)
	}
}

func TestOffsetsTruncate(t *testing.T) {
	doc := loadTemplate(t)
	// 60/25 truncates to 2 columns and 40/25 to 1 row.
	buf := newBuffer(t, 60, 40, RGB{7, 7, 7})
	opts := DefaultOptions()
	n := NewBuilder(doc, opts, buf.Width, buf.Height).Build(NewGrid(buf, opts).Cells())
	require.Equal(t, 6, n)

	assert.Equal(t, [3]float32{-2, 1, 0}, *doc.Nodes[1].Translation)
	assert.Equal(t, [3]float32{2, 1, 0}, *doc.Nodes[3].Translation)
	assert.Equal(t, [3]float32{-2, -1, 0}, *doc.Nodes[4].Translation)
}

func TestVoxelDimension(t *testing.T) {
	doc := loadTemplate(t)
	buf := newBuffer(t, 20, 20, RGB{7, 7, 7})
	opts := DefaultOptions()
	opts.CellSize = 10
	opts.VoxelDimension = 1
	NewBuilder(doc, opts, buf.Width, buf.Height).Build(NewGrid(buf, opts).Cells())

	require.Len(t, doc.Nodes, 5)
	assert.Equal(t, [3]float32{-1, 1.5, 0}, *doc.Nodes[1].Translation)
	assert.Equal(t, [3]float32{0, 0.5, 0}, *doc.Nodes[4].Translation)
}

func TestBackgroundCellIgnored(t *testing.T) {
	doc := loadTemplate(t)
	b := NewBuilder(doc, DefaultOptions(), 25, 25)
	assert.False(t, b.Add(Cell{Color: DefaultBackground}))
	assert.Len(t, doc.Nodes, 1)
}

func TestTexturedTemplateSurvivesBuild(t *testing.T) {
	doc, err := gltf.Parse([]byte(`{
		"asset": {"version": "2.0"},
		"nodes": [{}],
		"meshes": [{"primitives": [{"attributes": {"POSITION": 0, "TEXCOORD_0": 1}, "material": 0}]}],
		"materials": [{"pbrMetallicRoughness": {"baseColorTexture": {"index": 0}}}],
		"textures": [{"sampler": 0, "source": 0}],
		"images": [{"uri": "voxel.png"}],
		"samplers": [{}],
		"cameras": [{"type": "orthographic", "orthographic": {"xmag": 1, "ymag": 1, "zfar": 10, "znear": 0}}]
	}`))
	require.NoError(t, err)
	buf := newBuffer(t, 50, 25, RGB{10, 10, 10})
	opts := DefaultOptions()
	require.Equal(t, 2, NewBuilder(doc, opts, buf.Width, buf.Height).Build(NewGrid(buf, opts).SolidCells()))

	out, err := gltf.Marshal(doc, gltf.DefaultIndent)
	require.NoError(t, err)
	got, err := gltf.Parse(out)
	require.NoError(t, err)
	assert.Len(t, got.Textures, 1)
	assert.Len(t, got.Images, 1)
	assert.Len(t, got.Samplers, 1)
	assert.Len(t, got.Cameras, 1)
	require.Len(t, got.Materials, 2)
	for _, m := range got.Materials {
		assert.JSONEq(t, `{"index": 0}`, string(m.PBRMetallicRoughness.BaseColorTexture))
	}
}
