package variant

// AddListener registers fn to observe structural mutations of the object,
// returning an id usable with RemoveListener (spec §4.6, grounded on
// original_source's variant/observer.c).
func (o *ObjectValue) AddListener(fn Listener) int    { return o.add(fn) }
func (o *ObjectValue) RemoveListener(id int)          { o.remove(id) }

func (a *ArrayValue) AddListener(fn Listener) int { return a.add(fn) }
func (a *ArrayValue) RemoveListener(id int)       { a.remove(id) }

func (s *SetValue) AddListener(fn Listener) int { return s.add(fn) }
func (s *SetValue) RemoveListener(id int)       { s.remove(id) }
