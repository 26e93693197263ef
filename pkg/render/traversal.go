package render

// normalLength is the length of the segment drawn by Normal() to
// visualize a face vertex's normal.
const normalLength = 0.1

// DrawSolid projects and rasterizes every face of mesh as a filled,
// shaded, textured triangle.
func (p *Projector) DrawSolid(mesh MeshRenderer) {
	tex := mesh.MeshTexture()
	for i := range mesh.FaceCount() {
		face := mesh.Face(i)
		v := faceVertices(mesh, face)
		p.ProjectTriangle(v[0], v[1], v[2], tex)
	}
}

// Wireframe projects and rasterizes all three edges of every face of mesh
// in color, ignoring shading and texture.
func (p *Projector) Wireframe(mesh MeshRenderer, color Color) {
	for i := range mesh.FaceCount() {
		face := mesh.Face(i)
		v := faceVertices(mesh, face)
		p.ProjectSegment(v[0].Pos, v[1].Pos, color)
		p.ProjectSegment(v[1].Pos, v[2].Pos, color)
		p.ProjectSegment(v[2].Pos, v[0].Pos, color)
	}
}

// Vertex projects and rasterizes every mesh vertex referenced by a face as
// a single point.
func (p *Projector) Vertex(mesh MeshRenderer, color Color) {
	for i := range mesh.FaceCount() {
		face := mesh.Face(i)
		for _, fv := range face {
			pos := mesh.Point(fv.PointIdx)
			p.ProjectSegment(pos, pos, color)
		}
	}
}

// Normal projects and rasterizes a short segment from each face vertex
// along its normal, for debugging lighting and mesh orientation.
func (p *Projector) Normal(mesh MeshRenderer, color Color) {
	for i := range mesh.FaceCount() {
		face := mesh.Face(i)
		for _, fv := range face {
			pos := mesh.Point(fv.PointIdx)
			n := mesh.Normal(fv.NormalIdx)
			p.ProjectSegment(pos, pos.Add(n.Scale(normalLength)), color)
		}
	}
}

func faceVertices(mesh MeshRenderer, face [3]FaceVertex) [3]ProjVertex {
	var v [3]ProjVertex
	for i, fv := range face {
		v[i] = ProjVertex{
			Pos:    mesh.Point(fv.PointIdx),
			Normal: mesh.Normal(fv.NormalIdx),
			UV:     mesh.UV(fv.UVIdx),
		}
	}
	return v
}
