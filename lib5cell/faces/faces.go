// Package faces holds the fixed numbering of edges and triangles within a single pentachoron.
//
// Edge e and triangle e are complementary: the vertices of triangle e are exactly
// the three vertices not on edge e.
package faces

const (
	NumVertices  = 5
	NumFacets    = 5
	NumEdges     = 10
	NumTriangles = 10
)

// EdgeVertex[e] lists the endpoints of edge e in increasing order.
var EdgeVertex = [NumEdges][2]int{
	{0, 1}, {0, 2}, {0, 3}, {0, 4}, {1, 2},
	{1, 3}, {1, 4}, {2, 3}, {2, 4}, {3, 4},
}

// TriangleVertex[t] lists the vertices of triangle t in increasing order.
var TriangleVertex = [NumTriangles][3]int{
	{2, 3, 4}, {1, 3, 4}, {1, 2, 4}, {1, 2, 3}, {0, 3, 4},
	{0, 2, 4}, {0, 2, 3}, {0, 1, 4}, {0, 1, 3}, {0, 1, 2},
}

// EdgeNumber[i][j] is the edge joining vertices i and j, or -1 when i == j.
var EdgeNumber [NumVertices][NumVertices]int

// TriangleNumber[i][j][k] is the triangle spanned by distinct vertices i, j, k in any order, else -1.
var TriangleNumber [NumVertices][NumVertices][NumVertices]int

// EdgeLinkNextFacet[e][f] is the facet that follows facet f when walking around
// edge e inside the pentachoron, or -1 if facet f does not contain e.
//
// Edge e lies in the three facets opposite the vertices not on e.
// EdgeLinkPrevFacet walks the same cycle backwards.
var EdgeLinkNextFacet = [NumEdges][NumFacets]int{
	{-1, -1, 3, 4, 2},
	{-1, 3, -1, 4, 1},
	{-1, 2, 4, -1, 1},
	{-1, 2, 3, 1, -1},
	{3, -1, -1, 4, 0},
	{2, -1, 4, -1, 0},
	{2, -1, 3, 0, -1},
	{1, 4, -1, -1, 0},
	{1, 3, -1, 0, -1},
	{1, 2, 0, -1, -1},
}

var EdgeLinkPrevFacet = [NumEdges][NumFacets]int{
	{-1, -1, 4, 2, 3},
	{-1, 4, -1, 1, 3},
	{-1, 4, 1, -1, 2},
	{-1, 3, 1, 2, -1},
	{4, -1, -1, 0, 3},
	{4, -1, 0, -1, 2},
	{3, -1, 0, 2, -1},
	{4, 0, -1, -1, 1},
	{3, 0, -1, 1, -1},
	{2, 0, 1, -1, -1},
}

func init() {
	for i := range EdgeNumber {
		for j := range EdgeNumber[i] {
			EdgeNumber[i][j] = -1
			for k := range TriangleNumber[i][j] {
				TriangleNumber[i][j][k] = -1
			}
		}
	}
	for e, ev := range EdgeVertex {
		EdgeNumber[ev[0]][ev[1]] = e
		EdgeNumber[ev[1]][ev[0]] = e
	}
	for t, tv := range TriangleVertex {
		a, b, c := tv[0], tv[1], tv[2]
		TriangleNumber[a][b][c] = t
		TriangleNumber[a][c][b] = t
		TriangleNumber[b][a][c] = t
		TriangleNumber[b][c][a] = t
		TriangleNumber[c][a][b] = t
		TriangleNumber[c][b][a] = t
	}
}
