package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	cfg, err := ParseConfig(args)
	if err != nil {
		return err
	}

	log.Println("========================================")
	log.Println("🚀 Polygon Pathfinder Server")
	log.Println("========================================")
	log.Printf("   Tile size: %g px, canvas %dx%d px\n", cfg.TileSize, cfg.Width, cfg.Height)

	s := newServer(cfg)

	if cfg.MapFile != "" {
		polygon, err := LoadMapFile(cfg.MapFile, cfg.TileSize)
		if err != nil {
			return err
		}
		session := NewSession(cfg.TileSize)
		if err := session.SetPolygon(polygon); err != nil {
			return err
		}
		s.addSession(session)
		log.Printf("✅ Session %s preloaded with %s\n", session.ID, cfg.MapFile)
	}

	l, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}

	log.Printf("Server starting on %v\n", l.Addr())
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  POST   /sessions                   - Create an editing session")
	log.Println("  POST   /sessions/{id}/vertices     - Place, rewind or close at {x, y}")
	log.Println("  POST   /sessions/{id}/close        - Close the polygon and build the graph")
	log.Println("  POST   /sessions/{id}/edit         - Reopen the polygon for editing")
	log.Println("  GET    /sessions/{id}/map          - Save the polygon as a tile map")
	log.Println("  PUT    /sessions/{id}/map          - Load a tile map")
	log.Println("  PUT    /sessions/{id}/geojson      - Load a GeoJSON polygon")
	log.Println("  POST   /sessions/{id}/random       - Generate a random polygon")
	log.Println("  POST   /sessions/{id}/route        - Shortest path from start to end")
	log.Println("  GET    /sessions/{id}/graph        - Polygon, graph and path as GeoJSON")
	log.Println("  GET    /sessions/{id}/render.png   - Rendered scene")
	log.Println("  GET    /health                     - Check server status")
	log.Println("========================================")

	hs := &http.Server{
		Handler:      s,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
	}
	errc := make(chan error, 1)
	go func() {
		errc <- hs.Serve(l)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	select {
	case err := <-errc:
		log.Printf("Failed to serve: %v\n", err)
	case sig := <-sigs:
		log.Printf("Terminating: %v\n", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	return hs.Shutdown(ctx)
}
