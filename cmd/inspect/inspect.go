package inspect

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/meshvault/meshvault/internal/analysis"
	"github.com/meshvault/meshvault/internal/config"
	"github.com/meshvault/meshvault/internal/mesh"
)

var precisionFlag string

// InspectCmd decodes a single file and prints its measurements
// without touching the library.
var InspectCmd = &cobra.Command{
	Use:   "inspect <file.stl>",
	Short: "Decode a mesh file and print its measurements",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInspect(args[0]); err != nil {
			fmt.Printf("Inspect failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	InspectCmd.Flags().StringVarP(&precisionFlag, "precision", "p", "", "Vertex precision: native or quantized")
}

func runInspect(path string) error {
	if precisionFlag == "" {
		precisionFlag = config.DefaultPrecision
	}
	precision, err := mesh.ParsePrecision(precisionFlag)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	start := time.Now()
	parsed, err := mesh.Decode(path, data, mesh.Options{Precision: precision})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	m := analysis.Measure(parsed)

	fmt.Printf("%-14s %s\n", "File:", path)
	fmt.Printf("%-14s %s\n", "Size:", humanize.Bytes(uint64(len(data))))
	fmt.Printf("%-14s %s\n", "Format:", parsed.Format)
	fmt.Printf("%-14s %s\n", "Precision:", parsed.Precision)
	fmt.Printf("%-14s %s\n", "Triangles:", humanize.Comma(int64(m.TriangleCount)))
	fmt.Printf("%-14s %s\n", "Vertices:", humanize.Comma(int64(m.VertexCount)))
	fmt.Printf("%-14s %.3f x %.3f x %.3f\n", "Dimensions:", m.Dimensions.X, m.Dimensions.Y, m.Dimensions.Z)
	fmt.Printf("%-14s %.3f\n", "Surface area:", m.SurfaceArea)
	fmt.Printf("%-14s %.3f\n", "Bbox volume:", m.Volume)
	fmt.Printf("%-14s min %.4f / avg %.4f / max %.4f\n", "Edge length:", m.MinEdgeLength, m.AvgEdgeLength, m.MaxEdgeLength)
	fmt.Printf("%-14s %v\n", "Decode time:", elapsed.Round(time.Millisecond))

	for _, warning := range parsed.Warnings {
		fmt.Printf("%-14s %s\n", "Warning:", warning)
	}
	return nil
}
