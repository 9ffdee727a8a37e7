package models

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/warp/pkg/math3d"
)

// OBJLoader loads Wavefront OBJ files.
type OBJLoader struct {
	// FS resolves mtllib files and the map_Kd textures they name. When nil
	// material libraries are ignored and faces use the default material.
	FS fs.FS
}

// NewOBJLoader creates a loader resolving material files in fsys.
func NewOBJLoader(fsys fs.FS) *OBJLoader {
	return &OBJLoader{FS: fsys}
}

// LoadOBJ loads an OBJ file from disk, resolving its material libraries
// relative to the file.
func LoadOBJ(p string) (*Mesh, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
	return NewOBJLoader(os.DirFS(filepath.Dir(p))).Load(f, name)
}

// Load parses an OBJ from a reader. Polygons are fan triangulated and
// negative indices count back from the latest element.
func (l *OBJLoader) Load(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	// Temporary storage for OBJ data (1-indexed in OBJ format)
	var positions []math3d.Vec3
	var uvs []math3d.Vec2

	// OBJ indexes positions and uvs separately
	type vertexKey struct {
		pos, uv int
	}
	vertexMap := make(map[vertexKey]int)

	materials := make(map[string]int)
	current := -1

	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if len(line) == 0 || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid vertex: %w", lineNum, err)
			}
			positions = append(positions, math3d.V3(p[0], p[1], p[2]))

		case "vt":
			t, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid texture coord: %w", lineNum, err)
			}
			// OBJ puts v=0 at the bottom of the image.
			uvs = append(uvs, math3d.V2(t[0], 1-t[1]))

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNum)
			}

			var faceVerts []int
			for _, field := range fields[1:] {
				posIdx, uvIdx, err := parseFaceVertex(field)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}

				posIdx = resolveIndex(posIdx, len(positions))
				uvIdx = resolveIndex(uvIdx, len(uvs))

				if posIdx < 0 || posIdx >= len(positions) {
					return nil, fmt.Errorf("line %d: position index %d out of range", lineNum, posIdx+1)
				}
				if uvIdx >= len(uvs) {
					uvIdx = -1
				}

				key := vertexKey{posIdx, uvIdx}
				vertIdx, exists := vertexMap[key]
				if !exists {
					vert := MeshVertex{Position: positions[posIdx]}
					if uvIdx >= 0 {
						vert.UV = uvs[uvIdx]
					}
					vertIdx = len(mesh.Vertices)
					mesh.Vertices = append(mesh.Vertices, vert)
					vertexMap[key] = vertIdx
				}
				faceVerts = append(faceVerts, vertIdx)
			}

			// OBJ front faces wind counter-clockwise; swap to warp's order.
			for i := 1; i < len(faceVerts)-1; i++ {
				mesh.AddFace(faceVerts[0], faceVerts[i+1], faceVerts[i], current)
			}

		case "o":
			if len(fields) > 1 {
				mesh.Name = fields[1]
			}

		case "mtllib":
			if l.FS == nil {
				continue
			}
			for _, lib := range fields[1:] {
				if err := l.loadMTL(lib, mesh, materials); err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
			}

		case "usemtl":
			current = -1
			if len(fields) > 1 {
				if i, ok := materials[fields[1]]; ok {
					current = i
				}
			}

		default:
			// g, s, vn, l and unknown directives
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// loadMTL reads a material library. Kd sets the color, d (or Tr) the
// opacity, Ns the shininess and map_Kd the base map.
func (l *OBJLoader) loadMTL(name string, mesh *Mesh, index map[string]int) error {
	name = path.Clean(filepath.ToSlash(name))
	f, err := l.FS.Open(name)
	if err != nil {
		return fmt.Errorf("open mtllib: %w", err)
	}
	defer f.Close()

	dir := path.Dir(name)
	var mat *Material
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)

		if fields[0] == "newmtl" {
			if len(fields) < 2 {
				return fmt.Errorf("%s:%d: newmtl needs a name", name, lineNum)
			}
			index[fields[1]] = len(mesh.Materials)
			mesh.Materials = append(mesh.Materials, Material{
				Name:      fields[1],
				BaseColor: [4]float64{1, 1, 1, 1},
				Roughness: 1,
			})
			mat = &mesh.Materials[len(mesh.Materials)-1]
			continue
		}
		if mat == nil {
			continue
		}

		switch fields[0] {
		case "Kd":
			c, err := parseFloats(fields[1:], 3)
			if err != nil {
				return fmt.Errorf("%s:%d: invalid Kd: %w", name, lineNum, err)
			}
			mat.BaseColor[0], mat.BaseColor[1], mat.BaseColor[2] = c[0], c[1], c[2]
		case "d", "Tr":
			a, err := parseFloats(fields[1:], 1)
			if err != nil {
				return fmt.Errorf("%s:%d: invalid %s: %w", name, lineNum, fields[0], err)
			}
			if fields[0] == "Tr" {
				a[0] = 1 - a[0]
			}
			mat.BaseColor[3] = a[0]
		case "Ns":
			ns, err := parseFloats(fields[1:], 1)
			if err != nil {
				return fmt.Errorf("%s:%d: invalid Ns: %w", name, lineNum, err)
			}
			mat.Roughness = 1 - math3d.CropF(ns[0]/1000, 0, 1)
		case "map_Kd":
			if len(fields) < 2 {
				continue
			}
			// Options such as -s come first; the file name is last.
			img, err := l.loadImage(path.Join(dir, filepath.ToSlash(fields[len(fields)-1])))
			if err != nil {
				return fmt.Errorf("%s:%d: %w", name, lineNum, err)
			}
			mat.BaseMap = img
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read mtllib: %w", err)
	}
	return nil
}

func (l *OBJLoader) loadImage(name string) (image.Image, error) {
	f, err := l.FS.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open map_Kd: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode map_Kd %s: %w", name, err)
	}
	return img, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("need %d values, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := range out {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// parseFaceVertex parses a face vertex in format: v, v/vt, v/vt/vn, or v//vn
// Returns 1-indexed values (0 means not specified). Normals are ignored.
func parseFaceVertex(s string) (pos, uv int, err error) {
	parts := strings.Split(s, "/")

	pos, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid vertex index: %s", parts[0])
	}

	if len(parts) > 1 && parts[1] != "" {
		uv, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid texture index: %s", parts[1])
		}
	}

	return pos, uv, nil
}

// resolveIndex converts OBJ 1-indexed (or negative) index to 0-indexed.
// Returns -1 if index was 0 (not specified).
func resolveIndex(idx, count int) int {
	if idx == 0 {
		return -1
	}
	if idx < 0 {
		return count + idx // Negative indices count from end
	}
	return idx - 1
}
