package gltf

import "encoding/json"

// Document is a glTF 2.0 asset in its JSON form. Only the members the voxelizer reads or writes
// are typed in detail; textures, images, samplers, cameras, skins, animations and all extension
// and extras payloads are kept as raw JSON so a template survives the round trip unchanged.
type Document struct {
	Asset              Asset             `json:"asset"`
	Scene              *int              `json:"scene,omitempty"`
	Scenes             []Scene           `json:"scenes,omitempty"`
	Nodes              []Node            `json:"nodes,omitempty"`
	Meshes             []Mesh            `json:"meshes,omitempty"`
	Materials          []Material        `json:"materials,omitempty"`
	Accessors          []Accessor        `json:"accessors,omitempty"`
	BufferViews        []BufferView      `json:"bufferViews,omitempty"`
	Buffers            []Buffer          `json:"buffers,omitempty"`
	Textures           []json.RawMessage `json:"textures,omitempty"`
	Images             []json.RawMessage `json:"images,omitempty"`
	Samplers           []json.RawMessage `json:"samplers,omitempty"`
	Cameras            []json.RawMessage `json:"cameras,omitempty"`
	Skins              []json.RawMessage `json:"skins,omitempty"`
	Animations         []json.RawMessage `json:"animations,omitempty"`
	ExtensionsUsed     []string          `json:"extensionsUsed,omitempty"`
	ExtensionsRequired []string          `json:"extensionsRequired,omitempty"`
	Extensions         json.RawMessage   `json:"extensions,omitempty"`
	Extras             json.RawMessage   `json:"extras,omitempty"`
}

// Asset is the required metadata block.
type Asset struct {
	Version    string          `json:"version"`
	MinVersion string          `json:"minVersion,omitempty"`
	Generator  string          `json:"generator,omitempty"`
	Copyright  string          `json:"copyright,omitempty"`
	Extensions json.RawMessage `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

type Scene struct {
	Name       string          `json:"name,omitempty"`
	Nodes      []int           `json:"nodes,omitempty"`
	Extensions json.RawMessage `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

// Node places a mesh instance in the scene. Generated nodes only set Mesh and Translation;
// the root node collects them in Children.
type Node struct {
	Name        string          `json:"name,omitempty"`
	Mesh        *int            `json:"mesh,omitempty"`
	Camera      *int            `json:"camera,omitempty"`
	Skin        *int            `json:"skin,omitempty"`
	Children    []int           `json:"children,omitempty"`
	Translation *[3]float32     `json:"translation,omitempty"`
	Rotation    *[4]float32     `json:"rotation,omitempty"`
	Scale       *[3]float32     `json:"scale,omitempty"`
	Matrix      *[16]float32    `json:"matrix,omitempty"`
	Weights     []float32       `json:"weights,omitempty"`
	Extensions  json.RawMessage `json:"extensions,omitempty"`
	Extras      json.RawMessage `json:"extras,omitempty"`
}

type Mesh struct {
	Name       string          `json:"name,omitempty"`
	Primitives []Primitive     `json:"primitives"`
	Weights    []float32       `json:"weights,omitempty"`
	Extensions json.RawMessage `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

// Primitive is one draw call of a mesh: vertex attributes by accessor index plus the material.
type Primitive struct {
	Attributes map[string]int   `json:"attributes"`
	Indices    *int             `json:"indices,omitempty"`
	Material   *int             `json:"material,omitempty"`
	Mode       *int             `json:"mode,omitempty"`
	Targets    []map[string]int `json:"targets,omitempty"`
	Extensions json.RawMessage  `json:"extensions,omitempty"`
	Extras     json.RawMessage  `json:"extras,omitempty"`
}

type Material struct {
	Name                 string                `json:"name,omitempty"`
	PBRMetallicRoughness *PBRMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`
	NormalTexture        json.RawMessage       `json:"normalTexture,omitempty"`
	OcclusionTexture     json.RawMessage       `json:"occlusionTexture,omitempty"`
	EmissiveTexture      json.RawMessage       `json:"emissiveTexture,omitempty"`
	EmissiveFactor       *[3]float32           `json:"emissiveFactor,omitempty"`
	AlphaMode            string                `json:"alphaMode,omitempty"`
	AlphaCutoff          *float32              `json:"alphaCutoff,omitempty"`
	DoubleSided          bool                  `json:"doubleSided,omitempty"`
	Extensions           json.RawMessage       `json:"extensions,omitempty"`
	Extras               json.RawMessage       `json:"extras,omitempty"`
}

// PBRMetallicRoughness holds the metallic-roughness parameters. BaseColorFactor is a linear RGBA colour.
type PBRMetallicRoughness struct {
	BaseColorFactor          *[4]float32     `json:"baseColorFactor,omitempty"`
	BaseColorTexture         json.RawMessage `json:"baseColorTexture,omitempty"`
	MetallicFactor           *float32        `json:"metallicFactor,omitempty"`
	RoughnessFactor          *float32        `json:"roughnessFactor,omitempty"`
	MetallicRoughnessTexture json.RawMessage `json:"metallicRoughnessTexture,omitempty"`
	Extensions               json.RawMessage `json:"extensions,omitempty"`
	Extras                   json.RawMessage `json:"extras,omitempty"`
}

type Accessor struct {
	Name          string          `json:"name,omitempty"`
	BufferView    *int            `json:"bufferView,omitempty"`
	ByteOffset    int             `json:"byteOffset,omitempty"`
	ComponentType int             `json:"componentType"`
	Normalized    bool            `json:"normalized,omitempty"`
	Count         int             `json:"count"`
	Type          string          `json:"type"`
	Max           []float32       `json:"max,omitempty"`
	Min           []float32       `json:"min,omitempty"`
	Sparse        json.RawMessage `json:"sparse,omitempty"`
	Extensions    json.RawMessage `json:"extensions,omitempty"`
	Extras        json.RawMessage `json:"extras,omitempty"`
}

type BufferView struct {
	Name       string          `json:"name,omitempty"`
	Buffer     int             `json:"buffer"`
	ByteOffset int             `json:"byteOffset,omitempty"`
	ByteLength int             `json:"byteLength"`
	ByteStride int             `json:"byteStride,omitempty"`
	Target     int             `json:"target,omitempty"`
	Extensions json.RawMessage `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

type Buffer struct {
	Name       string          `json:"name,omitempty"`
	URI        string          `json:"uri,omitempty"`
	ByteLength int             `json:"byteLength"`
	Extensions json.RawMessage `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

// Index returns a pointer to i, for the optional index members.
func Index(i int) *int {
	return &i
}
