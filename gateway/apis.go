package gateway

import (
	"github.com/gin-gonic/gin"
)

type pathInput struct {
	Path string `form:"path" json:"path" binding:"required"`
}

type contentInput struct {
	Path    string `form:"path" json:"path" binding:"required"`
	Content string `form:"content" json:"content"`
}

type renameInput struct {
	Path string `form:"path" json:"path" binding:"required"`
	Name string `form:"name" json:"name" binding:"required"`
}

type transferInput struct {
	Src string `form:"src" json:"src" binding:"required"`
	Dst string `form:"dst" json:"dst" binding:"required"`
}

func (s *Server) stat(c *gin.Context) (interface{}, error) {
	var input pathInput
	if err := c.ShouldBind(&input); err != nil {
		return nil, err
	}

	info, err := s.tree.Stat(input.Path)
	if err = s.record("stat", err); err != nil {
		return nil, err
	}

	return info, nil
}

func (s *Server) list(c *gin.Context) (interface{}, error) {
	var input pathInput
	if err := c.ShouldBind(&input); err != nil {
		return nil, err
	}

	infos, err := s.tree.List(input.Path)
	if err = s.record("list", err); err != nil {
		return nil, err
	}

	return infos, nil
}

func (s *Server) readContent(c *gin.Context) (interface{}, error) {
	var input pathInput
	if err := c.ShouldBind(&input); err != nil {
		return nil, err
	}

	data, err := s.tree.Read(input.Path)
	if err = s.record("read", err); err != nil {
		return nil, err
	}

	return string(data), nil
}

func (s *Server) find(c *gin.Context) (interface{}, error) {
	var input struct {
		Pattern string `form:"pattern" json:"pattern" binding:"required"`
	}

	if err := c.ShouldBind(&input); err != nil {
		return nil, err
	}

	matches, err := s.tree.Find(input.Pattern)
	if err = s.record("find", err); err != nil {
		return nil, err
	}

	if matches == nil {
		matches = []string{}
	}

	return matches, nil
}

func (s *Server) createFolder(c *gin.Context) (interface{}, error) {
	var input pathInput
	if err := c.ShouldBind(&input); err != nil {
		return nil, err
	}

	e, err := s.tree.CreateFolder(input.Path)
	if err = s.record("create", err); err != nil {
		return nil, err
	}

	return s.tree.PathOf(e), nil
}

func (s *Server) createFile(c *gin.Context) (interface{}, error) {
	var input contentInput
	if err := c.ShouldBind(&input); err != nil {
		return nil, err
	}

	e, err := s.tree.CreateFile(input.Path, []byte(input.Content))
	if err = s.record("create", err); err != nil {
		return nil, err
	}

	return s.tree.PathOf(e), nil
}

func (s *Server) writeContent(c *gin.Context) (interface{}, error) {
	var input contentInput
	if err := c.ShouldBind(&input); err != nil {
		return nil, err
	}

	return nil, s.record("write", s.tree.Write(input.Path, []byte(input.Content)))
}

func (s *Server) deleteNode(c *gin.Context) (interface{}, error) {
	var input pathInput
	if err := c.ShouldBind(&input); err != nil {
		return nil, err
	}

	return nil, s.record("delete", s.tree.Delete(input.Path))
}

func (s *Server) rename(c *gin.Context) (interface{}, error) {
	var input renameInput
	if err := c.ShouldBind(&input); err != nil {
		return nil, err
	}

	return nil, s.record("rename", s.tree.Rename(input.Path, input.Name))
}

func (s *Server) move(c *gin.Context) (interface{}, error) {
	var input transferInput
	if err := c.ShouldBind(&input); err != nil {
		return nil, err
	}

	return nil, s.record("move", s.tree.Move(input.Src, input.Dst))
}

func (s *Server) copy(c *gin.Context) (interface{}, error) {
	var input transferInput
	if err := c.ShouldBind(&input); err != nil {
		return nil, err
	}

	e, err := s.tree.Copy(input.Src, input.Dst)
	if err = s.record("copy", err); err != nil {
		return nil, err
	}

	return s.tree.PathOf(e), nil
}
